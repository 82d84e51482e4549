package smtjson

import "encoding/json"

func marshalString(s string) ([]byte, error) { return json.Marshal(s) }

func marshalValue(v any) ([]byte, error) { return json.Marshal(v) }
