package dashboard

import (
	"time"

	"github.com/muurk/envdash/internal/api"
	"github.com/muurk/envdash/internal/comfort"
)

// LatestErrorMessage is shown when a latest-data cycle fails.
const LatestErrorMessage = "Failed to fetch latest data. Please check your connection."

// Reading is the most recent sensor reading.
type Reading struct {
	Temperature float64 // °C
	Humidity    float64 // %
	AirQuality  float64 // PPM
	Timestamp   time.Time
}

// Prediction holds the model's predicted values.
type Prediction struct {
	Temperature float64
	Humidity    float64
	AirQuality  float64
}

// Devices holds the simulated device states.
type Devices struct {
	AC           string
	Purifier     string
	Dehumidifier string
}

// State is everything the dashboard renders. Values handed out by the
// Controller are deep copies and safe to keep.
type State struct {
	Reading    Reading
	Prediction Prediction
	Comfort    comfort.Status
	Devices    Devices

	// AlertVisible is true while the comfort alert modal is shown.
	AlertVisible bool

	// History is replaced wholesale by each successful historical cycle.
	History       []api.HistoricalPoint
	HistoryLoaded bool

	Loading bool

	// Err is the last latest-data failure. Only a hard reset clears it.
	Err error

	// LastUpdated is when the last latest-data cycle succeeded.
	LastUpdated time.Time

	// Seq increases with every mutation, so consumers can drop snapshots
	// that arrive out of order.
	Seq uint64
}

// InitialState is the state before any fetch has completed.
func InitialState() State {
	return State{
		Comfort: comfort.Initial(),
		Devices: Devices{
			AC:           api.DeviceOff,
			Purifier:     api.DeviceOff,
			Dehumidifier: api.DeviceOff,
		},
		Loading: true,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Comfort = s.Comfort.Clone()
	if s.History != nil {
		s.History = append([]api.HistoricalPoint(nil), s.History...)
	}
	return s
}

// ShowLoading reports whether only the loading indicator should be shown.
func (s State) ShowLoading() bool {
	return s.Loading && !s.HistoryLoaded
}

// ShowError reports whether the full-screen error view should be shown.
func (s State) ShowError() bool {
	return s.Err != nil
}
