package service

import (
	"strconv"
	"strings"

	"lares2mqtt/internal/core/domain"
	"lares2mqtt/pkg/lareslink"

	"go.uber.org/zap"
)

// State is the scalar published for a sensor: either a numeric value or a
// short status token. The kind can change between two refreshes of the same
// entity (a meter publishes numbers while its reading parses, and falls back
// to the raw status token when it does not).
type State struct {
	Number *float64
	Text   string
}

func NumberState(v float64) State {
	return State{Number: &v}
}

func TextState(s string) State {
	return State{Text: s}
}

func (s State) IsNumber() bool {
	return s.Number != nil
}

// Payload renders the state for publication.
func (s State) Payload() string {
	if s.Number != nil {
		return strconv.FormatFloat(*s.Number, 'f', -1, 64)
	}
	return s.Text
}

// Reduction is the result of reducing one raw record: the scalar state plus
// the full replacement attribute bag.
type Reduction struct {
	State      State
	Attributes map[string]any
}

type reducerFunc func(rec lareslink.Record, logger *zap.Logger) Reduction

// reducers is the closed dispatch table. Categories without an entry fall
// back to reduceGeneric.
var reducers = map[domain.Category]reducerFunc{
	domain.CategorySystem:     reduceSystem,
	domain.CategoryPowerLines: reducePowerLines,
	domain.CategoryDomus:      reduceDomus,
	domain.CategoryPartitions: reducePartitions,
}

// Reduce maps a raw record of the given category to (state, attributes).
// It never fails: every malformed numeric field is logged and nulled.
func Reduce(category domain.Category, rec lareslink.Record, logger *zap.Logger) Reduction {
	if fn, ok := reducers[category]; ok {
		return fn(rec, logger)
	}
	return reduceGeneric(rec, logger)
}

func reduceSystem(rec lareslink.Record, logger *zap.Logger) Reduction {
	temp := rec.Map("TEMP")
	tempIn := parseTemperature(temp.String("IN"), "TEMP.IN", logger)
	tempOut := parseTemperature(temp.String("OUT"), "TEMP.OUT", logger)
	return Reduction{
		State: TextState(statusField(rec, "ARM")),
		Attributes: map[string]any{
			"temp_in":  nullable(tempIn),
			"temp_out": nullable(tempOut),
		},
	}
}

func reducePowerLines(rec lareslink.Record, logger *zap.Logger) Reduction {
	pcons := parsePowerNumber(rec.String("PCONS"), "PCONS", logger)
	pprod := parsePowerNumber(rec.String("PPROD"), "PPROD", logger)

	var state State
	if pcons != nil {
		state = NumberState(*pcons)
	} else {
		state = TextState(statusField(rec, "STATUS"))
	}
	return Reduction{
		State: state,
		Attributes: map[string]any{
			"Consumo":    nullable(pcons),
			"Produzione": nullable(pprod),
			"Status":     statusField(rec, "STATUS"),
		},
	}
}

func reduceDomus(rec lareslink.Record, logger *zap.Logger) Reduction {
	temperature := parseTemperature(rec.String("T"), "T", logger)
	humidity := parseNumber(rec.String("H"), "H", logger)

	var state State
	if temperature != nil {
		state = NumberState(*temperature)
	} else {
		state = TextState(statusField(rec, "STA"))
	}
	attrs := rec.Fields()
	attrs["temperature"] = nullable(temperature)
	attrs["humidity"] = nullable(humidity)
	return Reduction{State: state, Attributes: attrs}
}

func reducePartitions(rec lareslink.Record, logger *zap.Logger) Reduction {
	total := 0.0
	if stat := rec.Slice("STAT"); len(stat) > 0 {
		latest := stat[len(stat)-1]
		for _, entry := range latest.Slice("VAL") {
			if enc := parseNumber(entry.String("ENC"), "ENC", logger); enc != nil {
				total += *enc
			}
		}
	}

	var state State
	if total > 0 {
		state = NumberState(total)
	} else {
		state = TextState(statusField(rec, "STA"))
	}
	attrs := rec.Fields()
	attrs["total_consumption"] = total
	return Reduction{State: state, Attributes: attrs}
}

func reduceGeneric(rec lareslink.Record, _ *zap.Logger) Reduction {
	return Reduction{
		State:      TextState(statusField(rec, "STA")),
		Attributes: rec.Fields(),
	}
}

// statusField returns the raw status token for key, or "unknown" when the
// field is absent.
func statusField(rec lareslink.Record, key string) string {
	if s, ok := rec.Text(key); ok {
		return s
	}
	return "unknown"
}

// parseNumber converts a decimal string to a float. An empty value is
// treated as absent; a malformed one is logged at error level and nulled,
// never escalated.
func parseNumber(value, field string, logger *zap.Logger) *float64 {
	if value == "" {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Error("could not convert numeric field",
			zap.String("field", field), zap.String("value", value))
		return nil
	}
	return &v
}

// parseTemperature is parseNumber with the leading '+' sign the controller
// puts on positive temperatures stripped first.
func parseTemperature(value, field string, logger *zap.Logger) *float64 {
	if value == "" {
		return nil
	}
	return parseNumber(strings.TrimPrefix(value, "+"), field, logger)
}

// parsePowerNumber accepts only plain unsigned decimals: digits with at most
// one dot. Signs, exponents and anything else fall through to null, so a
// negative meter reading never becomes a numeric state.
func parsePowerNumber(value, field string, logger *zap.Logger) *float64 {
	if value == "" {
		return nil
	}
	if !plainDecimal(value) {
		return nil
	}
	return parseNumber(value, field, logger)
}

func plainDecimal(s string) bool {
	digits := 0
	dot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

// nullable lets a missing numeric field serialize as JSON null instead of a
// typed nil pointer.
func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
