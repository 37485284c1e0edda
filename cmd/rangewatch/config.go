package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"

	"gitlab.com/lologarithm/rangewatch/alert"
	"gitlab.com/lologarithm/rangewatch/notify"
	"gitlab.com/lologarithm/rangewatch/rnet"
)

// Config is station configuration.
// Includes users&access levels, alert thresholds and where to send readings.
type Config struct {
	Name     string
	Users    map[string]userAccess
	Alert    alert.Settings
	Mailgun  notify.MailgunConfig
	Influx   InfluxConfig
	MQTT     rnet.MQTTConfig
	StatsDir string
}

// InfluxConfig is where readings are recorded, disabled without a URL.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// loadConfig reads the json config file and then lets the environment,
// or failing that the env file, fill in secrets.
func loadConfig(path, envFile string) Config {
	cfg := Config{
		Name:     "station",
		Users:    map[string]userAccess{},
		Alert:    alert.DefaultSettings,
		StatsDir: "./stats",
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if jerr := json.Unmarshal(data, &cfg); jerr != nil {
			log.Printf("[Error] Failed to unmarshal %s: %v", path, jerr)
		}
	} else {
		log.Printf("Failed to open config: %v", err)
	}

	fileEnv, err := godotenv.Read(envFile)
	if err != nil {
		log.Printf("No %s file found, relying on environment", envFile)
	}
	getenv := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileEnv[key]
	}
	override := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.Mailgun.APIKey, "MAILGUN_API_KEY")
	override(&cfg.Mailgun.Domain, "MAILGUN_DOMAIN")
	override(&cfg.Influx.URL, "INFLUXDB_URL")
	override(&cfg.Influx.Token, "INFLUXDB_TOKEN")
	override(&cfg.Influx.Org, "INFLUXDB_ORG")
	override(&cfg.Influx.Bucket, "INFLUXDB_BUCKET")
	override(&cfg.MQTT.Broker, "MQTT_BROKER")
	override(&cfg.MQTT.User, "MQTT_USER")
	override(&cfg.MQTT.Password, "MQTT_PASSWORD")

	for name, v := range cfg.Users {
		log.Printf("User: %s, Access: %d", name, v.Access)
	}
	return cfg
}
