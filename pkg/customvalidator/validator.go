package customvalidator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TimeSlots are the bookable hour-long windows of a service day. The lunch
// hour (12:00 PM - 1:00 PM) is not bookable.
var TimeSlots = []string{
	"9:00 AM - 10:00 AM",
	"10:00 AM - 11:00 AM",
	"11:00 AM - 12:00 PM",
	"1:00 PM - 2:00 PM",
	"2:00 PM - 3:00 PM",
	"3:00 PM - 4:00 PM",
	"4:00 PM - 5:00 PM",
}

var participantTypes = map[string]bool{
	"customer": true,
	"staff":    true,
	"system":   true,
	"business": true,
}

// RegisterCustomValidations registers the domain rules and reports field
// names by their json tag.
func RegisterCustomValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("time_slot", isTimeSlot); err != nil {
		return err
	}
	if err := v.RegisterValidation("participant_type", isParticipantType); err != nil {
		return err
	}
	if err := v.RegisterValidation("iso_date", isISODate); err != nil {
		return err
	}
	return nil
}

func IsTimeSlot(s string) bool {
	for _, slot := range TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}

func isTimeSlot(fl validator.FieldLevel) bool {
	return IsTimeSlot(fl.Field().String())
}

func isParticipantType(fl validator.FieldLevel) bool {
	return participantTypes[fl.Field().String()]
}

func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}
