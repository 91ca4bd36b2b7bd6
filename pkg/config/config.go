// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	QueueTimeoutSecond     int     `env:"QUEUE_TIMEOUT_SECOND"      envDefault:"300"  envDocs:"seconds a queue entry may wait before it is evicted"`
	RatingWindowInitial    int     `env:"RATING_WINDOW_INITIAL"     envDefault:"100"  envDocs:"initial +- rating window for ranked opponent search"`
	RatingWindowIncrement  int     `env:"RATING_WINDOW_INCREMENT"   envDefault:"100"  envDocs:"how much the rating window grows per expansion step"`
	RatingWindowMax        int     `env:"RATING_WINDOW_MAX"         envDefault:"500"  envDocs:"maximum rating window the search can expand to"`
	CountdownSecond        int     `env:"COUNTDOWN_SECOND"          envDefault:"5"    envDocs:"pre-fight countdown length in seconds"`
	MaxMatchesPerTick      int     `env:"MAX_MATCHES_PER_TICK"      envDefault:"10"   envDocs:"cap on matches created per scheduler tick"`
	TickIntervalSecond     int     `env:"TICK_INTERVAL_SECOND"      envDefault:"1"    envDocs:"scheduler tick interval in seconds"`
	AbuseWindowSecond      int     `env:"ABUSE_WINDOW_SECOND"       envDefault:"3600" envDocs:"rolling window for same-opponent repeat detection"`
	MinMatchDurationSecond int     `env:"MIN_MATCH_DURATION_SECOND" envDefault:"30"   envDocs:"matches shorter than this are flagged suspicious"`
	MaxOpponentRepeats     int     `env:"MAX_OPPONENT_REPEATS"      envDefault:"3"    envDocs:"same-opponent match count within the window that flags suspicion"`
	SuspiciousRewardFactor float64 `env:"SUSPICIOUS_REWARD_FACTOR"  envDefault:"0.5"  envDocs:"rating delta multiplier applied to suspicious matches"`
	OpponentHistoryMax     int     `env:"OPPONENT_HISTORY_MAX"      envDefault:"50"   envDocs:"max opponent history records kept per player"`
	MatchRemoveGraceSecond int     `env:"MATCH_REMOVE_GRACE_SECOND" envDefault:"5"    envDocs:"seconds a terminal match stays in the index so late events are ignored safely"`
	AnywhereMaxDistance    float64 `env:"ANYWHERE_MAX_DISTANCE"     envDefault:"50"   envDocs:"max distance between players for anywhere-mode duels"`
	RankedEnabled          bool    `env:"RANKED_ENABLED"            envDefault:"true" envDocs:"if false the rating service is treated as absent and ranked scoring is skipped"`
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) QueueTimeout() time.Duration {
	return time.Duration(c.QueueTimeoutSecond) * time.Second
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalSecond) * time.Second
}

func (c *Config) AbuseWindow() time.Duration {
	return time.Duration(c.AbuseWindowSecond) * time.Second
}

func (c *Config) MinMatchDuration() time.Duration {
	return time.Duration(c.MinMatchDurationSecond) * time.Second
}

func (c *Config) MatchRemoveGrace() time.Duration {
	return time.Duration(c.MatchRemoveGraceSecond) * time.Second
}
