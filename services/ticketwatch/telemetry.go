package ticketwatch

import (
	"railwatch/lib/telemetry"
)

var tracer = telemetry.Tracer("railwatch.services.ticketwatch")
var meter = telemetry.Meter("railwatch.services.ticketwatch")

var scrapeCounter, _ = meter.Int64Counter("ticketwatch.scrapes")
var alertCounter, _ = meter.Int64Counter("ticketwatch.alerts")
var cacheHitCounter, _ = meter.Int64Counter("ticketwatch.cache_hits")
