package semanticsearch

import (
	"github.com/qdrant/go-client/qdrant"
	"github.com/spf13/cast"

	"github.com/vriveras/refcore/refs"
)

// Payload keys a point must carry for pointsToRefs to recover a concrete
// (path, startLine, endLine) location. A point missing path/startLine is
// skipped rather than returned as a half-formed Ref.
const (
	payloadPathKey      = "path"
	payloadStartLineKey = "startLine"
	payloadEndLineKey   = "endLine"
	payloadPreviewKey   = "preview"
	payloadSessionIDKey = "sessionId"
)

// pointsToRefs converts Qdrant's scored points into Refs, pulling the
// location and preview back out of the payload each point was upserted
// with.
func pointsToRefs(points []*qdrant.ScoredPoint) []refs.Ref {
	out := make([]refs.Ref, 0, len(points))
	for _, point := range points {
		payload := convertPayload(point.GetPayload())

		path, ok := payload[payloadPathKey].(string)
		if !ok || path == "" {
			continue
		}
		startLine, ok := asInt(payload[payloadStartLineKey])
		if !ok || startLine < 1 {
			continue
		}
		endLine, ok := asInt(payload[payloadEndLineKey])
		if !ok || endLine < startLine {
			endLine = startLine
		}

		r := refs.Ref{
			Path:      path,
			StartLine: startLine,
			EndLine:   endLine,
			Score:     float64(point.GetScore()),
			Source:    refs.SourceMemory,
		}
		if preview, ok := payload[payloadPreviewKey].(string); ok {
			r.Preview = preview
		}
		if sessionID, ok := payload[payloadSessionIDKey].(string); ok {
			r.SessionID = sessionID
			r.Source = refs.SourceSessions
		}
		out = append(out, r)
	}
	return out
}

func asInt(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for key, value := range payload {
		if value == nil {
			continue
		}
		out[key] = convertValue(value)
	}
	return out
}

func convertValue(value *qdrant.Value) any {
	if value == nil {
		return nil
	}
	switch kind := value.Kind.(type) {
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	default:
		return nil
	}
}
