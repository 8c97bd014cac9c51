package utils

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

/*
DecodeStrict decodifica JSON rejeitando chaves desconhecidas
e garantindo que exista exatamente UM objeto JSON.
*/
func DecodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		/*
			retorna mensagens referentes ao erro dos campos,
			como por exemplo (ex.: "json: unknown field \"foo\"")
		*/
		return err
	}
	/*
		Garante que não tenha lixo após o objeto JSON
		Uma forma de checar EOF seria tentar um segundo Decode em struct{} e exigir EOF.
	*/
	if dec.More() {
		return errors.New("unexpected additional JSON content")
	}

	return nil
}

// FormatUnknownFieldError deixa a mensagem de erro de decode legível para o cliente.
func FormatUnknownFieldError(err error) string {
	if errors.Is(err, io.EOF) {
		return "request body is empty"
	}
	return fmt.Sprintf("invalid json: %v", err)
}
