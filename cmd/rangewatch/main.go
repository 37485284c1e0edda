// rangewatch serves a page showing the station's temperature, distance and
// alert banner, refreshing itself once a second.
//
// Usage: rangewatch -host=:80 -config=config.json -name=porch
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rpio "github.com/stianeikeland/go-rpio/v4"

	"gitlab.com/lologarithm/rangewatch/history"
	"gitlab.com/lologarithm/rangewatch/notify"
	"gitlab.com/lologarithm/rangewatch/rnet"
	"gitlab.com/lologarithm/rangewatch/sensor"
	"gitlab.com/lologarithm/rangewatch/station"
)

func main() {
	host := flag.String("host", ":80", "host:port to serve on")
	configPath := flag.String("config", "config.json", "path to config file")
	envFile := flag.String("env", ".env", "file with secrets in KEY=value form")
	name := flag.String("name", "", "name of station, overrides config")
	tpin := flag.Int("tpin", 4, "input pin to read for temp")
	trig := flag.Int("trig", 23, "output pin to trigger the sonar")
	echo := flag.Int("echo", 24, "input pin to read the sonar echo")
	tinterval := flag.Duration("tinterval", 2*time.Second, "how often to read temperature (DHT22 needs >=2s)")
	dinterval := flag.Duration("dinterval", 200*time.Millisecond, "how often to read distance")
	broadcast := flag.Bool("broadcast", false, "announce snapshots on the multicast network")
	fake := flag.Bool("fake", false, "use fake sensor data")
	flag.Parse()

	cfg := loadConfig(*configPath, *envFile)
	if *name != "" {
		cfg.Name = *name
	}
	fmt.Printf("Name: %s, Thermo Pin: %d\nSonar Trigger Pin: %d\nSonar Echo Pin: %d\n", cfg.Name, *tpin, *trig, *echo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := newServer(cfg)
	if m := notify.NewMailer(cfg.Mailgun); m != nil {
		srv.mailer = m
	}
	if snaps, err := history.Load(cfg.StatsDir); err != nil {
		log.Printf("[Error] Failed to load stats: %s", err)
	} else {
		srv.loadHistory(snaps)
	}
	srv.recorder = openRecorders(cfg)
	srv.broadcasters = openBroadcasters(cfg, *broadcast)

	mon := &monitor{
		name:       cfg.Name,
		alerts:     cfg.Alert,
		thermEvery: *tinterval,
		rangeEvery: *dinterval,
		readErrors: srv.metrics.readErrors,
	}
	var err error
	if !*fake {
		err = rpio.Open()
	}
	if *fake || err != nil {
		fmt.Printf("Unable to open raspberry pi gpio pins: %v\n-----  Defaulting to use fake data.  -----\n", err)
		f := &sensor.Fake{}
		mon.therm, mon.sonar = f, f
	} else {
		defer rpio.Close()
		mon.therm = sensor.NewTherm(*tpin)
		mon.sonar = sensor.NewSonar(*trig, *echo)
	}

	stream := make(chan station.Snapshot, 5)
	go mon.run(ctx, stream)
	done := make(chan struct{})
	go func() {
		srv.run(ctx, stream)
		close(done)
	}()

	httpSrv := &http.Server{Addr: *host, Handler: srv.routes()}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.closeStreams()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Printf("[Error] shutdown: %s", err)
		}
	}()

	log.Printf("starting webhost on: %s", *host)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[Error] %s", err)
		stop()
	}

	<-done
	if srv.recorder != nil {
		srv.recorder.Close()
	}
	for _, b := range srv.broadcasters {
		b.Close()
	}
	log.Printf("Done!")
}

// openRecorders sets up the stats file and influx if configured.
func openRecorders(cfg Config) history.Recorder {
	var recs history.Multi
	if cfg.StatsDir != "" {
		g, err := history.OpenGobFile(cfg.StatsDir, time.Now())
		if err != nil {
			log.Printf("[Error] Failed to open stats file: %s", err)
		} else {
			recs = append(recs, g)
		}
	}
	if cfg.Influx.URL != "" {
		recs = append(recs, history.NewInflux(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket))
		log.Printf("Recording to influx at %s", cfg.Influx.URL)
	}
	if len(recs) == 0 {
		return nil
	}
	return recs
}

func openBroadcasters(cfg Config, multicast bool) []rnet.Broadcaster {
	var bs []rnet.Broadcaster
	if multicast {
		addrs, err := rnet.MyIPs()
		if err != nil || len(addrs) == 0 {
			log.Printf("[Error] No multicast capable address found: %v", err)
		} else {
			log.Printf("MyAddrs: %#v", addrs)
			a, err := rnet.NewAnnouncer(addrs[0]+":0", rnet.StationMessages)
			if err != nil {
				log.Printf("[Error] Failed to listen to udp: %s", err)
			} else {
				bs = append(bs, a)
			}
		}
	}
	if cfg.MQTT.Broker != "" {
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = "rangewatch-" + cfg.Name
		}
		if cfg.MQTT.Topic == "" {
			cfg.MQTT.Topic = "rangewatch/" + cfg.Name
		}
		p, err := rnet.NewMQTTPublisher(cfg.MQTT)
		if err != nil {
			log.Printf("[Error] %s", err)
		} else {
			bs = append(bs, p)
		}
	}
	return bs
}
