package config

type ServerConfig struct {
	HTTPPort int `yaml:"http-port"`
}

func (s *ServerConfig) Port() int {
	return s.HTTPPort
}
