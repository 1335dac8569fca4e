package repository

import (
	"cmp"
	"tripbook/internal/domains/booking/model"
	"tripbook/shared/timezone"
)

func applyComponentUpdate(component model.Component, status model.ComponentStatus, payload model.ComponentPayload) model.Component {
	component.Status = status
	component.AttemptCount = payload.AttemptCount
	component.LastError = model.NullString(payload.LastError)

	if status == model.ComponentConfirmed {
		component.ProviderReference = model.NullString(payload.ProviderReference)
		component.ConfirmedPrice.Int64, component.ConfirmedPrice.Valid = payload.ConfirmedPrice, true
		component.ConfirmedAt.Time, component.ConfirmedAt.Valid = payload.ConfirmedAt, !payload.ConfirmedAt.IsZero()
	}

	component.ModifiedAt = timezone.Now()
	component.ModifiedBy = model.SystemActor

	return component
}

func applyCompensation(component model.Component, cancelErr error) model.Component {
	if cancelErr != nil {
		component.LastError = model.NullString(model.CompensationFailedPrefix + cancelErr.Error())
	} else {
		component.Status = model.ComponentCancelled
		component.LastError = model.NullString(model.ReasonCancelled)
	}

	component.ModifiedAt = timezone.Now()
	component.ModifiedBy = model.SystemActor

	return component
}

// compareComponents orders components flight, hotel, car, ticket.
func compareComponents(a, b model.Component) int {
	return cmp.Compare(typeRank(a.Type), typeRank(b.Type))
}

func typeRank(t model.ComponentType) int {
	for i, known := range model.ComponentTypes() {
		if known == t {
			return i
		}
	}

	return len(model.ComponentTypes())
}
