package mappers

import "time"

// utcPtr normalizes a nullable timestamp read back from the driver.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func intPtr(v int) *int {
	return &v
}
