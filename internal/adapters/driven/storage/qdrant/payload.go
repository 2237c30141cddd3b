package qdrant

import (
	"time"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

// PointID returns the deterministic point id for a section id.
func PointID(sectionID string) string {
	return uuid.NewSHA1(sectionNamespace, []byte(sectionID)).String()
}

func sectionToPoint(sec domain.Section, seq int) *pb.PointStruct {
	return &pb.PointStruct{
		Id: uuidPointID(PointID(sec.ID)),
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{Data: sec.Vector},
			},
		},
		Payload: map[string]*pb.Value{
			keyID:      stringValue(sec.ID),
			keySeq:     intValue(int64(seq)),
			keyTitle:   stringValue(sec.Title),
			keyContent: stringValue(sec.Content),
			keyURL:     stringValue(sec.URL),
			keySpec:    stringValue(string(sec.Spec)),
		},
	}
}

func payloadToSection(payload map[string]*pb.Value) domain.Section {
	return domain.Section{
		ID:      payload[keyID].GetStringValue(),
		Title:   payload[keyTitle].GetStringValue(),
		Content: payload[keyContent].GetStringValue(),
		URL:     payload[keyURL].GetStringValue(),
		Spec:    domain.SpecFamily(payload[keySpec].GetStringValue()),
	}
}

func statsToPoint(stats domain.StoreStats) *pb.PointStruct {
	return &pb.PointStruct{
		Id: uuidPointID(metaPointID),
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{Data: []float32{1}},
			},
		},
		Payload: map[string]*pb.Value{
			keyGeneration: stringValue(stats.Generation),
			keySections:   intValue(int64(stats.Sections)),
			keyDimensions: intValue(int64(stats.Dimensions)),
			keyCreatedAt:  stringValue(stats.CreatedAt.Format(time.RFC3339Nano)),
		},
	}
}

func pointToStats(payload map[string]*pb.Value) domain.StoreStats {
	stats := domain.StoreStats{
		Exists:     true,
		Generation: payload[keyGeneration].GetStringValue(),
		Sections:   int(payload[keySections].GetIntegerValue()),
		Dimensions: int(payload[keyDimensions].GetIntegerValue()),
	}
	if t, err := time.Parse(time.RFC3339Nano, payload[keyCreatedAt].GetStringValue()); err == nil {
		stats.CreatedAt = t
	}
	return stats
}

func uuidPointID(id string) *pb.PointId {
	return &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: id}}
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func intValue(n int64) *pb.Value {
	return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: n}}
}

func withPayload() *pb.WithPayloadSelector {
	return &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}}
}

func fieldMatch(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}
