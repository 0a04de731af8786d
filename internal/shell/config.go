package shell

import "time"

// Config holds the session timings.
type Config struct {
	CharDelay        time.Duration
	LineDelay        time.Duration
	FetchDuration    time.Duration
	FetchInterval    time.Duration
	ClearDuration    time.Duration
	ClearInterval    time.Duration
	OverlayCharDelay time.Duration

	DisableAuditLogging bool
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{
		CharDelay:        10 * time.Millisecond,
		LineDelay:        50 * time.Millisecond,
		FetchDuration:    2000 * time.Millisecond,
		FetchInterval:    300 * time.Millisecond,
		ClearDuration:    1500 * time.Millisecond,
		ClearInterval:    300 * time.Millisecond,
		OverlayCharDelay: 40 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	fill := func(v *time.Duration, d time.Duration) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&c.CharDelay, def.CharDelay)
	fill(&c.LineDelay, def.LineDelay)
	fill(&c.FetchDuration, def.FetchDuration)
	fill(&c.FetchInterval, def.FetchInterval)
	fill(&c.ClearDuration, def.ClearDuration)
	fill(&c.ClearInterval, def.ClearInterval)
	fill(&c.OverlayCharDelay, def.OverlayCharDelay)
	return c
}
