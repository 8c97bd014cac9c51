package handlers

import (
	"errors"
	"strings"
)

// As invariantes de verdade ficam no domínio; aqui só o que o JSON não garante.

func validateCreateDTO(d FundCreateDTO) error {
	if strings.TrimSpace(d.Code) == "" {
		return errors.New("code is required")
	}
	if d.TypeID < 0 {
		return errors.New("typeId must not be negative")
	}
	return nil
}

func validateUpdateDTO(d FundUpdateDTO) error {
	if d.TypeID < 0 {
		return errors.New("typeId must not be negative")
	}
	return nil
}

func validatePatrimonyDTO(d PatrimonyDTO) error {
	if d.Patrimony == nil {
		return errors.New("patrimony is required")
	}
	return nil
}
