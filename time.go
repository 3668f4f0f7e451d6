package botbase

import (
	"encoding/json"
	"fmt"
	"time"

	"go.yaml.in/yaml/v4"
)

// Duration is a time.Duration written as "1m30s" in configuration and JSON payloads.
// A bare integer is read as a number of seconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch v := v.(type) {
	case float64:
		d.Duration = time.Duration(v * float64(time.Second))
		return nil
	case string:
		return d.parse(v)
	default:
		return fmt.Errorf("duration: unsupported value %s", data)
	}
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var seconds int
	if err := value.Decode(&seconds); err == nil {
		d.Duration = time.Duration(seconds) * time.Second
		return nil
	}

	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	return d.parse(str)
}

func (d *Duration) parse(str string) (err error) {
	if str == "" {
		return nil
	}

	d.Duration, err = time.ParseDuration(str)
	return err
}
