package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"cardroom.com/server/game"
)

// ServerConfig contains server configuration YAML content.
//
//	listen-addr: 127.0.0.1:7878
//	api-addr: 127.0.0.1:8080
//	game:
//	  small-blind: 5
//	  big-blind: 10
//	  starting-chips: 1000
//	  min-players: 2
//	  max-players: 9
type ServerConfig struct {
	ListenAddr string          `yaml:"listen-addr"`
	APIAddr    string          `yaml:"api-addr"`
	Game       game.GameConfig `yaml:"game"`
}

// DefaultServerConfig is used when no config file is given.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr: "127.0.0.1:7878",
		APIAddr:    "127.0.0.1:8080",
		Game:       game.DefaultGameConfig(),
	}
}

// ReadConfig reads the server configuration YAML file. Fields missing
// from the file keep their defaults.
func ReadConfig(fileName string) (*ServerConfig, error) {
	bytes, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file [%s]", fileName)
	}

	config := DefaultServerConfig()
	if err := yaml.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrapf(err, "error parsing YAML file [%s]", fileName)
	}
	return config, nil
}
