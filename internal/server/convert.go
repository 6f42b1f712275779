package server

import (
	keelv1 "github.com/emberline/keel/gen/keel/v1"
	"github.com/emberline/keel/internal/model"
)

// eventToProto maps a persisted event onto the wire Message shape.
func eventToProto(ev *model.Event) *keelv1.Message {
	return &keelv1.Message{
		Id:         ev.ID,
		GlobalId:   ev.GlobalID,
		Position:   ev.Sequence,
		StreamName: ev.StreamName.String(),
		MsgType:    ev.EventType,
		Data:       string(ev.Data),
		Time:       ev.Time.UnixMilli(),
	}
}

func eventsToProto(events []model.Event) []*keelv1.Message {
	msgs := make([]*keelv1.Message, len(events))
	for i := range events {
		msgs[i] = eventToProto(&events[i])
	}
	return msgs
}
