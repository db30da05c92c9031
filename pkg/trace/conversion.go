package trace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used by the voice-conversion pipeline
const (
	AttrConversionID    = "conversion.id"
	AttrConversionStage = "conversion.stage"
	AttrAudioInputSize  = "audio.input_size"
	AttrTextLength      = "text.length"
	AttrVoiceProvider   = "voice.provider"
)

// InstrumentTranscode creates a span for the ffmpeg transcode stage
func InstrumentTranscode(ctx context.Context, conversionID string) (context.Context, trace.Span) {
	return StartSpan(ctx, "conversion.transcode",
		trace.WithAttributes(
			attribute.String(AttrConversionID, conversionID),
			attribute.String(AttrConversionStage, "transcode"),
		),
	)
}

// InstrumentVoiceClone creates a span for the provider voice-creation stage
func InstrumentVoiceClone(ctx context.Context, conversionID string, sampleSize int) (context.Context, trace.Span) {
	return StartSpan(ctx, "conversion.clone",
		trace.WithAttributes(
			attribute.String(AttrConversionID, conversionID),
			attribute.String(AttrConversionStage, "clone"),
			attribute.String(AttrVoiceProvider, "elevenlabs"),
			attribute.Int(AttrAudioInputSize, sampleSize),
		),
	)
}

// InstrumentSynthesis creates a span for the speech-synthesis stage
func InstrumentSynthesis(ctx context.Context, conversionID string, textLength int) (context.Context, trace.Span) {
	return StartSpan(ctx, "conversion.synthesize",
		trace.WithAttributes(
			attribute.String(AttrConversionID, conversionID),
			attribute.String(AttrConversionStage, "synthesize"),
			attribute.String(AttrVoiceProvider, "elevenlabs"),
			attribute.Int(AttrTextLength, textLength),
		),
	)
}

// InstrumentVoiceDelete creates a span for the provider voice cleanup
func InstrumentVoiceDelete(ctx context.Context, conversionID string) (context.Context, trace.Span) {
	return StartSpan(ctx, "conversion.delete_voice",
		trace.WithAttributes(
			attribute.String(AttrConversionID, conversionID),
			attribute.String(AttrConversionStage, "cleanup"),
			attribute.String(AttrVoiceProvider, "elevenlabs"),
		),
	)
}
