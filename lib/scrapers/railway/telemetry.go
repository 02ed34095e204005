package railway

import (
	"railwatch/lib/restyutil"
	"railwatch/lib/telemetry"
)

var tracer = telemetry.Tracer("railwatch.lib.scrapers.railway")
var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes every HttpFetcher created afterwards dump
// its requests and responses to `out`.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
