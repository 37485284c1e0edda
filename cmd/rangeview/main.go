// rangeview mirrors a station's page in the terminal.
// It polls the station the same way the page does and prints the values
// whenever they change.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitlab.com/lologarithm/rangewatch/refresh"
)

func main() {
	addr := flag.String("addr", "http://127.0.0.1:80", "base url of the station")
	interval := flag.Duration("interval", refresh.DefaultInterval, "how often to refresh")
	useJSON := flag.Bool("json", false, "read /snapshot instead of parsing the page")
	single := flag.Bool("single", false, "skip a refresh while the previous one is still running")
	user := flag.String("user", "", "basic auth user for stations outside the LAN")
	pwd := flag.String("pwd", "", "basic auth password")
	flag.Parse()

	var src refresh.Source
	if *useJSON {
		s := refresh.NewJSONSource(*addr)
		if *user != "" {
			s.BasicAuth(*user, *pwd)
		}
		src = s
	} else {
		s := refresh.NewHTMLSource(*addr)
		if *user != "" {
			s.BasicAuth(*user, *pwd)
		}
		src = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	view := refresh.NewView(refresh.ViewState{})
	c := refresh.NewController(src, view, refresh.Options{Interval: *interval, SingleFlight: *single})
	log.Printf("Watching %s every %s", *addr, *interval)
	h := c.Start(ctx)
	printChanges(ctx, view, *interval)
	h.Stop()

	st := c.Stats()
	log.Printf("Done! %d refreshes, %d failed, %d skipped", st.Cycles, st.Failures, st.Skipped)
}

// printChanges logs the view every time it differs from what was last printed.
func printChanges(ctx context.Context, view *refresh.View, every time.Duration) {
	t := time.NewTicker(every / 2)
	defer t.Stop()
	var last refresh.ViewState
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		st := view.State()
		if st == last {
			continue
		}
		last = st
		log.Print(format(st))
	}
}

func format(st refresh.ViewState) string {
	line := "Temperature: " + st.Temperature + " °F  Distance: " + st.Distance + " cm"
	if st.AlertVisible {
		line += "  !! " + st.AlertText + " !!"
	}
	return line
}
