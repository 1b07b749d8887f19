package gps

// MaxSatellites bounds the satellite table carried by a single view.
const MaxSatellites = 32

// Fix is one combined position sample as delivered to subscribers.
// It is always published as a whole, never field by field.
type Fix struct {
	Latitude  float64 // decimal degrees
	Longitude float64 // decimal degrees
	Altitude  float64 // meters above MSL
	Speed     float64 // meters per second
	Course    float64 // degrees from true north
	Accuracy  float64 // HDOP, unitless horizontal accuracy proxy
	Timestamp int64   // capture time, epoch milliseconds
}

// unknownFix is the sentinel state before any sentence has decoded.
func unknownFix() Fix {
	return Fix{Altitude: -1, Speed: -1, Course: -1, Accuracy: -1}
}

// Satellite describes one visible satellite from a GSV sentence.
type Satellite struct {
	ID        int     // PRN
	SNR       int     // dBHz, 0 when not tracking
	Elevation float64 // degrees
	Azimuth   float64 // degrees
}

// SatelliteView is the visible-satellite table. It is rebuilt wholesale from
// every GSV sentence; satellites split across a multi-message GSV sequence
// are not merged.
type SatelliteView struct {
	Count      int
	Satellites []Satellite
}

// RawSentence carries the reconstructed sentence text for subscribers that
// want the unmodified protocol stream.
type RawSentence struct {
	Text      string
	Timestamp int64 // epoch milliseconds
}

// Status reports session lifecycle transitions.
type Status int

const (
	SessionBegin Status = iota
	SessionEnd
)

func (s Status) String() string {
	switch s {
	case SessionBegin:
		return "session-begin"
	case SessionEnd:
		return "session-end"
	default:
		return "unknown"
	}
}

// Callbacks is the subscriber table injected at session construction.
// Nil slots are simply skipped.
type Callbacks struct {
	OnFix        func(Fix)
	OnSatellites func(SatelliteView)
	OnRaw        func(RawSentence)
	OnStatus     func(Status)
}
