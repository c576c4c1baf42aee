// Package widgets renders the dashboard's building blocks as strings.
//
// Every widget is a pure function of its arguments: no goroutines, no I/O,
// no access to the controller or the API. The tui package composes them into
// screens; the ui package reuses the value formatters for one-shot output.
//
//	tile := widgets.ValueTile{
//	    Label:      "Temperature",
//	    Value:      widgets.FormatTemperature(23.456), // "23.5°C"
//	    Icon:       widgets.IconTemperature,
//	    Prediction: widgets.FormatTemperature(24.1),
//	}
//	fmt.Println(tile.Render(30))
package widgets
