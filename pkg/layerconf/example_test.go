package layerconf_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nauticalab/layerconf/pkg/layerconf"
)

type appConfig struct {
	Port     int      `yaml:"port" validate:"required"`
	LogLevel []string `yaml:"logLevels"`
	Issuer   string   `yaml:"issuer" validate:"required,url"`
}

func ExampleManager_Load() {
	dir, err := os.MkdirTemp("", "layerconf")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	content := `port: 3000
log-levels: [info, warn]
auth:
  server-url: https://auth.local
issuer: ${auth.serverUrl}/realms/main
---
config:
  activate:
    on-profile: dev
port: 8080
log-levels: [debug]
`
	if err := os.WriteFile(filepath.Join(dir, "application.yaml"), []byte(content), 0644); err != nil {
		fmt.Println(err)
		return
	}

	manager := layerconf.New[appConfig](
		layerconf.NewStructValidator[appConfig](),
		layerconf.WithEnvironment(map[string]string{
			"config.baseLocation": dir,
			"profiles.active":     "default,dev",
		}),
	)

	cfg, err := manager.Load(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(cfg.Port)
	fmt.Println(cfg.LogLevel)
	fmt.Println(cfg.Issuer)
	// Output:
	// 8080
	// [debug]
	// https://auth.local/realms/main
}
