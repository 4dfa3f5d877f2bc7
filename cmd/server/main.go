package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/watchparty/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	secret = configVar[string]{
		envKey:       "SERVER_SECRET",
		flagKey:      "secret",
		defaultValue: "",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 8080,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	membersLimit = configVar[int]{
		envKey:       "SERVER_MEMBERS_LIMIT",
		flagKey:      "members-limit",
		defaultValue: 9,
	}
	pingInterval = configVar[time.Duration]{
		envKey:       "SERVER_PING_INTERVAL",
		flagKey:      "ping-interval",
		defaultValue: 25 * time.Second,
	}
	pongTimeout = configVar[time.Duration]{
		envKey:       "SERVER_PONG_TIMEOUT",
		flagKey:      "pong-timeout",
		defaultValue: 60 * time.Second,
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(secret.flagKey, secret.defaultValue, "Token signing secret")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(membersLimit.flagKey, membersLimit.defaultValue, "Maximum number of members in the room")
	pflag.Duration(pingInterval.flagKey, pingInterval.defaultValue, "Interval between liveness pings")
	pflag.Duration(pongTimeout.flagKey, pongTimeout.defaultValue, "Deadline for a peer to answer a ping")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(secret.flagKey, secret.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(membersLimit.flagKey, membersLimit.envKey)
	viper.BindEnv(pingInterval.flagKey, pingInterval.envKey)
	viper.BindEnv(pongTimeout.flagKey, pongTimeout.envKey)

	viper.SetDefault(secret.flagKey, secret.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(membersLimit.flagKey, membersLimit.defaultValue)
	viper.SetDefault(pingInterval.flagKey, pingInterval.defaultValue)
	viper.SetDefault(pongTimeout.flagKey, pongTimeout.defaultValue)

	config := &app.AppConfig{
		Secret:       viper.GetString(secret.flagKey),
		Host:         viper.GetString(host.flagKey),
		Port:         viper.GetInt(port.flagKey),
		LogLevel:     viper.GetString(logLevel.flagKey),
		MembersLimit: viper.GetInt(membersLimit.flagKey),
		PingInterval: viper.GetDuration(pingInterval.flagKey),
		PongTimeout:  viper.GetDuration(pongTimeout.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
