package motivation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/2beens/kinnikutoken/internal/telemetry/metrics"
	"github.com/2beens/kinnikutoken/internal/telemetry/tracing"
	"github.com/2beens/kinnikutoken/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=composer_mocks_test.go -package=motivation_test

var ErrNotConfigured = errors.New("text generator not configured")

var Fallbacks = []string{
	"ナイスファイト！その調子で頑張ろう！",
	"その1回が筋肉をデカくする！",
	"昨日の自分を超えたな！明日も行くぞ！",
}

type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Composer asks the text generator for a motivational note, and falls back to a canned one on any failure.
type Composer struct {
	generator textGenerator
	metrics   *metrics.Manager
	// PickFallback selects one of Fallbacks, injectable for tests
	PickFallback func(n int) int
}

// NewComposer accepts a nil generator; Compose then reports ErrNotConfigured.
func NewComposer(generator textGenerator, metricsManager *metrics.Manager) *Composer {
	return &Composer{
		generator:    generator,
		metrics:      metricsManager,
		PickFallback: rand.IntN,
	}
}

// Compose returns the note attached to a reward transfer.
// Generation failures never surface; the returned error is only ErrNotConfigured.
func (c *Composer) Compose(ctx context.Context, computation workout.Computation) (_ string, fallback bool, _ error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "motivation.compose")
	defer span.End()

	if c.generator == nil {
		return "", false, ErrNotConfigured
	}

	defer func(begin time.Time) {
		if c.metrics != nil {
			c.metrics.HistMessageGenDuration.Observe(time.Since(begin).Seconds())
		}
	}(time.Now())

	msg, err := c.generator.Generate(ctx, BuildPrompt(computation))
	if err != nil {
		log.Errorf("generate motivational message: %s", err)
		span.SetAttributes(attribute.Bool("message.fallback", true))
		if c.metrics != nil {
			c.metrics.CounterMessageFallbacks.Inc()
		}
		return Fallbacks[c.PickFallback(len(Fallbacks))], true, nil
	}

	span.SetAttributes(attribute.Bool("message.fallback", false))
	return msg, false, nil
}

// BuildPrompt embeds the workout summary into the trainer persona prompt.
func BuildPrompt(computation workout.Computation) string {
	return fmt.Sprintf(
		"あなたは、超熱血なフィットネストレーナーです。まるで鬼軍曹のように、しかし愛情を込めて、ユーザーを限界まで追い込むのがあなたのスタイルです。"+
			"ユーザーが今、筋力トレーニングを終えました。内容は%sで、合計%d回、推定消費カロリーは%.1fkcalです。"+
			"この内容を見て、ユーザーの魂に火をつけるような、最高に熱く、パワフルで、モチベーションが爆上がりする一言（100文字以内）を生成してください。"+
			"例：「その1回が筋肉をデカくする！」「昨日の自分を超えたな！」",
		computation.Summary(),
		computation.TotalReps(),
		computation.Calories,
	)
}
