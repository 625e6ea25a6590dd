package cli

import "github.com/caarlos0/env/v6"

// Config carries the runtime tunables spec.md gives no script-level syntax
// for (SPEC_FULL.md §5 Configuration): VM resource limits and the default
// pcap_open_write snaplen. Loaded with github.com/caarlos0/env/v6, the
// library the teacher's own CLI depends on transitively through mna/mainer
// — here it is exercised directly, since internal/cli is its natural home.
type Config struct {
	MaxSteps     int `env:"P2SH_MAX_STEPS" envDefault:"0"`
	MaxCallDepth int `env:"P2SH_MAX_CALL_DEPTH" envDefault:"1024"`
	SnapLen      int `env:"P2SH_SNAPLEN" envDefault:"262144"`
}

// LoadConfig reads Config from the environment, falling back to its
// envDefault tags for anything unset. MaxSteps defaulting to 0 means
// unlimited (spec.md §5 "no timeouts"); MaxCallDepth's default mirrors a
// generous but bounded recursion depth (spec.md §8 "stack overflow at a
// configured limit").
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
