// Package chime は撃破のたびに短い音を鳴らす表示先です。
package chime

import (
	"context"
	"math"
	"time"

	"checklist/domain"

	"github.com/gopxl/beep"
)

const (
	SampleRate = beep.SampleRate(48000)

	toneDuration = 250 * time.Millisecond
)

// PlayFunc はストリーマーを再生します。本番では speaker.Play を渡します。
type PlayFunc func(s ...beep.Streamer)

type Chime struct {
	sr   beep.SampleRate
	play PlayFunc
}

var _ domain.Display = (*Chime)(nil)

func New(sr beep.SampleRate, play PlayFunc) *Chime {
	return &Chime{sr: sr, play: play}
}

func (c *Chime) ResetDisplay(ctx context.Context) error { return nil }

// MarkDefeated は2音の上昇チャイムを鳴らします。
func (c *Chime) MarkDefeated(ctx context.Context, name string) error {
	c.play(c.Tone())
	return nil
}

// ResolveForm はフォームを区別しないのでグループ名をそのまま返します。
func (c *Chime) ResolveForm(ctx context.Context, group string) (string, error) {
	return group, nil
}

// Tone は1回分のチャイムを返します。
func (c *Chime) Tone() beep.Streamer {
	half := c.sr.N(toneDuration / 2)
	return beep.Seq(
		beep.Take(half, NewBellGenerator(c.sr, 880)),
		beep.Take(half, NewBellGenerator(c.sr, 1318.5)),
	)
}

// BellGenerator は減衰する正弦波です。
type BellGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func NewBellGenerator(sr beep.SampleRate, freq float64) *BellGenerator {
	return &BellGenerator{sr: sr, freq: freq}
}

func (g *BellGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.6*math.Sin(2*math.Pi*g.freq*t) + 0.2*math.Sin(2*math.Pi*g.freq*2*t)

		// 5ms のアタックと指数減衰
		attack := math.Min(t/0.005, 1.0)
		sample *= attack * math.Exp(-t*8) * 0.4

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BellGenerator) Err() error {
	return nil
}
