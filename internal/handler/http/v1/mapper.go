package v1

import (
	"github.com/shenikar/sos_shield/internal/models"
)

// DTOToUserModel преобразует DTO регистрации в доменную модель
func DTOToUserModel(dto RegisterUserRequest) *models.User {
	return &models.User{
		Name:      dto.Name,
		Email:     dto.Email,
		PushToken: dto.PushToken,
		Role:      dto.Role,
	}
}

// DTOToTelemetry преобразует DTO запроса SOS в телеметрию
func DTOToTelemetry(dto TriggerSOSRequest) models.Telemetry {
	t := models.Telemetry{
		Speed:  dto.Speed,
		Impact: dto.Impact,
	}
	if dto.Latitude != nil {
		t.Latitude = *dto.Latitude
	}
	if dto.Longitude != nil {
		t.Longitude = *dto.Longitude
	}
	return t
}

// ModelToUserResponse преобразует доменную модель в DTO для ответа
func ModelToUserResponse(model *models.User) *UserResponse {
	return &UserResponse{
		ID:        model.ID,
		Name:      model.DisplayName(),
		Email:     model.Email,
		PushToken: model.PushToken,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// ModelsToDirectoryResponses преобразует справочник без push токенов
func ModelsToDirectoryResponses(users []*models.User) []*DirectoryEntryResponse {
	responses := make([]*DirectoryEntryResponse, len(users))
	for i, u := range users {
		responses[i] = &DirectoryEntryResponse{
			ID:    u.ID,
			Name:  u.DisplayName(),
			Email: u.Email,
		}
	}
	return responses
}

func ModelsToSelectedContactResponses(contacts []*models.SelectedContact) []*SelectedContactResponse {
	responses := make([]*SelectedContactResponse, len(contacts))
	for i, c := range contacts {
		responses[i] = &SelectedContactResponse{
			ContactID: c.ContactID,
			Name:      c.Name,
			CreatedAt: c.CreatedAt,
		}
	}
	return responses
}

func ModelToDispatchResponse(model *models.DispatchResult) *DispatchResponse {
	return &DispatchResponse{
		DispatchID: model.DispatchID,
		Recipients: model.Recipients,
		Tickets:    model.Tickets,
		Delivered:  model.Delivered,
		Queued:     model.Queued,
		Failed:     model.Failed,
	}
}

// ModelToSOSEventResponse преобразует событие в DTO, nil остается nil
func ModelToSOSEventResponse(model *models.SOSEvent) *SOSEventResponse {
	if model == nil {
		return nil
	}
	return &SOSEventResponse{
		ID:         model.ID,
		DispatchID: model.DispatchID,
		SenderID:   model.SenderID,
		SenderName: model.SenderName,
		Latitude:   model.Latitude,
		Longitude:  model.Longitude,
		Speed:      model.Speed,
		Impact:     model.Impact,
		Status:     string(model.Status),
		MapsURL:    model.MapsURL(),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// ModelsToSOSEventResponses преобразует слайс моделей в слайс DTO
func ModelsToSOSEventResponses(events []*models.SOSEvent) []*SOSEventResponse {
	responses := make([]*SOSEventResponse, len(events))
	for i, e := range events {
		responses[i] = ModelToSOSEventResponse(e)
	}
	return responses
}
