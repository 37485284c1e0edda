package page

import (
	"html/template"
	"io"

	"gitlab.com/lologarithm/rangewatch/refresh"
)

// base is only ever cloned. A html/template can not be cloned once executed.
var base = template.Must(template.New("main").Funcs(placeholders(refresh.Snapshot{})).Parse(Main))

func placeholders(s refresh.Snapshot) template.FuncMap {
	return template.FuncMap{
		refresh.TemperatureID:  func() string { return s.Temperature },
		refresh.DistanceID:     func() string { return s.Distance },
		refresh.AlertMessageID: func() string { return s.AlertMessage },
	}
}

// Render writes the page with the snapshot values substituted in.
// Values are escaped for the HTML they land in.
func Render(w io.Writer, s refresh.Snapshot) error {
	t, err := base.Clone()
	if err != nil {
		return err
	}
	return t.Funcs(placeholders(s)).Execute(w, nil)
}
