package helper

import "encoding/json"

// JSONToStruct re-encodes a loosely typed value (map, envelope data) into the
// target type via JSON. Fields that do not fit are dropped, not errored.
func JSONToStruct[I any](payload any) (result *I, err error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	if err = json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func JSONToByte(payload any) ([]byte, error) {
	return json.Marshal(payload)
}
