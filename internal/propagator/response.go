package propagator

// Response describes how a control reports activity (hardware response) or
// how its translated output should behave (output response)
type Response string

const (
	Gate       Response = "gate"       // distinct on and off events per press
	Toggle     Response = "toggle"     // one event per press, state alternates
	Constant   Response = "constant"   // a fixed event on activation
	Continuous Response = "continuous" // a value across a range
)

// compatibility lists the legal output responses for each hardware response
var compatibility = map[Response][]Response{
	Gate:       {Gate, Toggle, Constant},
	Toggle:     {Toggle, Constant},
	Continuous: {Continuous, Constant},
	Constant:   {Toggle, Constant},
}

// Responses returns every response kind
func Responses() []Response {
	return []Response{Gate, Toggle, Constant, Continuous}
}

// Valid reports whether r is one of the four response kinds
func (r Response) Valid() bool {
	_, ok := compatibility[r]
	return ok
}

// LegalOutputs returns the output responses hardware may be paired with
func LegalOutputs(hardware Response) []Response {
	legal := compatibility[hardware]
	out := make([]Response, len(legal))
	copy(out, legal)
	return out
}

// Compatible reports whether the pairing is in the compatibility table
func Compatible(hardware, output Response) bool {
	for _, r := range compatibility[hardware] {
		if r == output {
			return true
		}
	}
	return false
}
