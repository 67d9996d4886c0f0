package config

var defaultMemcachedHosts = []string{"localhost:11211"}

type MemcachedConfig struct {
	NodeHosts []string `yaml:"hosts"`
}

func (s *MemcachedConfig) Hosts() []string {
	if len(s.NodeHosts) == 0 {
		return defaultMemcachedHosts
	}
	return s.NodeHosts
}
