package req

import (
	"encoding/json"
	"errors"
	"io"
)

// maxBodySize - тела запросов у нас маленькие
const maxBodySize = 1 << 20

func Decode[T any](body io.ReadCloser) (T, error) {
	var payload T
	defer body.Close()

	dec := json.NewDecoder(io.LimitReader(body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return payload, errors.New("empty request body")
		}
		return payload, err
	}

	return payload, nil
}
