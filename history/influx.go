package history

import (
	"context"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"gitlab.com/lologarithm/rangewatch/station"
)

// Measurement is the influx measurement snapshots are written to.
const Measurement = "station"

// Influx writes snapshots to an InfluxDB 2 bucket.
type Influx struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
}

// NewInflux connects a blocking writer to the given bucket.
func NewInflux(url, token, org, bucket string) *Influx {
	client := influxdb2.NewClient(url, token)
	return &Influx{client: client, write: client.WriteAPIBlocking(org, bucket)}
}

func (i *Influx) Record(ctx context.Context, s station.Snapshot) error {
	p := influxdb2.NewPoint(Measurement,
		map[string]string{"name": s.Name},
		map[string]interface{}{
			"temp_f":      float64(s.TempF),
			"humidity":    float64(s.Humidity),
			"distance_cm": s.DistanceCM,
			"alert":       s.Alert,
		},
		s.Time)
	return i.write.WritePoint(ctx, p)
}

func (i *Influx) Close() error {
	i.client.Close()
	return nil
}
