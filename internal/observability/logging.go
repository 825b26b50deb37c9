package observability

import (
	"context"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogging exports logs over OTLP in addition to stdout. Call it after
// InitLogger; it replaces Logger with a tee of both cores.
func InitLogging(ctx context.Context) (func(context.Context) error, error) {

	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(
			sdklog.NewBatchProcessor(exporter),
		),
	)

	Logger = teeOTel(Logger, otelzap.NewCore(ServiceName(), otelzap.WithLoggerProvider(provider)))

	return provider.Shutdown, nil
}

// teeOTel keeps base's level for the OTel core, so LOG_LEVEL applies to both
// outputs.
func teeOTel(base *zap.Logger, otelCore zapcore.Core) *zap.Logger {
	level := zap.LevelEnablerFunc(base.Core().Enabled)
	filtered, err := zapcore.NewIncreaseLevelCore(otelCore, level)
	if err != nil {
		filtered = otelCore
	}
	return zap.New(zapcore.NewTee(base.Core(), filtered))
}
