package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskLeadCreatedNotify = "leads.created.notify"

type LeadCreatedNotifyPayload struct {
	LeadID    string `json:"leadId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
	Source    string `json:"source"`
	Recipient string `json:"recipient"`
}

func NewLeadCreatedNotifyTask(payload LeadCreatedNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadCreatedNotify, data, asynq.MaxRetry(5)), nil
}

func ParseLeadCreatedNotifyPayload(task *asynq.Task) (LeadCreatedNotifyPayload, error) {
	var payload LeadCreatedNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadCreatedNotifyPayload{}, fmt.Errorf("decode %s payload: %w", TaskLeadCreatedNotify, err)
	}
	return payload, nil
}
