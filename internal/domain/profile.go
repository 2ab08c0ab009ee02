package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type Gender int

const (
	GenderMale   Gender = 0
	GenderFemale Gender = 1
)

func ParseGender(raw string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "male", "m":
		return GenderMale, nil
	case "1", "female", "f":
		return GenderFemale, nil
	default:
		return 0, fmt.Errorf("%w: unsupported gender %q", ErrInvalidInput, raw)
	}
}

type ProfileFilter struct {
	Gender        Gender
	AgeMin        int
	AgeMax        int
	DistanceMiles int
}

func (f ProfileFilter) Validate() error {
	if f.Gender != GenderMale && f.Gender != GenderFemale {
		return fmt.Errorf("%w: gender must be 0 or 1", ErrInvalidInput)
	}
	if f.AgeMin < 18 {
		return fmt.Errorf("%w: minimum age must be at least 18", ErrInvalidInput)
	}
	if f.AgeMax < f.AgeMin {
		return fmt.Errorf("%w: maximum age %d is below minimum age %d", ErrInvalidInput, f.AgeMax, f.AgeMin)
	}
	if f.DistanceMiles <= 0 {
		return fmt.Errorf("%w: distance must be positive", ErrInvalidInput)
	}

	return nil
}

type Location struct {
	Lat float64
	Lon float64
}

func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidInput, l.Lat)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidInput, l.Lon)
	}

	return nil
}

type ReportCause int

const (
	ReportCauseSpam      ReportCause = 1
	ReportCauseOffensive ReportCause = 2
)

func ParseReportCause(raw string) (ReportCause, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "spam", strconv.Itoa(int(ReportCauseSpam)):
		return ReportCauseSpam, nil
	case "offensive", "inappropriate", strconv.Itoa(int(ReportCauseOffensive)):
		return ReportCauseOffensive, nil
	default:
		return 0, fmt.Errorf("%w: unsupported report cause %q", ErrInvalidInput, raw)
	}
}

func (c ReportCause) String() string {
	switch c {
	case ReportCauseSpam:
		return "spam"
	case ReportCauseOffensive:
		return "offensive"
	default:
		return strconv.Itoa(int(c))
	}
}
