package logic

// Snapshot is the most recently completed full set of sensor readings.
// The measuring callback overwrites it wholesale after a successful read
// cycle; the display and upload callbacks copy it by value. With the
// single-threaded dispatch loop a reader sees either the old or the new
// tuple, never a mix.
type Snapshot struct {
	ECO2        uint16  // equivalent CO2, ppm
	TVOC        uint16  // total volatile organic compounds, ppb
	Temperature float64 // degrees Celsius
	Humidity    float64 // percent relative humidity
}
