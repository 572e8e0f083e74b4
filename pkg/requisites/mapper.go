// Package requisites maps flat extracted company records (name, tax ids,
// bank details) onto the side-prefixed field keys of a template. Side
// detection is a heuristic kept behind DetectSide so it can later be
// replaced by an explicit per-field side tag without touching the wizard.
package requisites

import (
	"strings"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Side prefixes used by template field keys.
const (
	SideClient   = "client"
	SideCustomer = "customer"
	SideExecutor = "executor"
)

// fieldCandidates maps extracted record keys to ordered candidate field
// keys. For each extracted value the first candidate that exists in the
// template and carries the requested side prefix wins.
var fieldCandidates = map[string][]string{
	"company_name": {
		"client_name", "executor_name",
		"customer_company_name", "executor_full_name",
	},
	"legal_address": {
		"client_address", "executor_address",
		"customer_address",
	},
	"phone_email": {
		"client_phone", "executor_phone",
		"customer_phone",
	},
	"ogrn": {
		"client_ogrn", "executor_ogrn",
		"customer_ogrn", "executor_ogrnip",
	},
	"inn": {
		"client_inn", "executor_inn",
		"customer_inn",
	},
	"kpp": {
		"client_kpp", "executor_kpp",
		"customer_kpp",
	},
	"bank_account": {
		"client_account", "executor_account",
		"customer_bank_rs", "executor_account_number",
	},
	"corr_account": {
		"client_corr_account", "executor_corr_account",
		"customer_bank_ks", "executor_correspondent_account",
	},
	"bik": {
		"client_bik", "executor_bik",
		"customer_bank_bik",
	},
	"bank_name": {
		"client_bank", "executor_bank",
		"customer_bank_name", "executor_bank_name",
	},
	"bank_inn": {
		"executor_bank_inn", "customer_bank_inn",
	},
	"bank_address": {
		"executor_bank_address", "customer_bank_address",
	},
	"director": {
		"client_director", "executor_director",
		"customer_director_full_name",
	},
}

// counterpartyGroupMarkers flag group labels that belong to the executor
// party of a document.
var counterpartyGroupMarkers = []string{"исполнитель", "получатель"}

// Map populates field keys of one side from an extracted record. Each
// extracted non-empty value is assigned to at most one field; extracted
// keys with no acceptable candidate are silently dropped.
func Map(extracted map[string]string, fields []schema.FieldSpec, side string) map[string]string {
	if len(extracted) == 0 || len(fields) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		known[field.Key] = struct{}{}
	}

	result := make(map[string]string)
	for key, value := range extracted {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		for _, candidate := range fieldCandidates[key] {
			if _, ok := known[candidate]; !ok {
				continue
			}
			if !strings.HasPrefix(candidate, side) {
				continue
			}
			result[candidate] = value
			break
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// DetectSide guesses which party's fields are being collected at the given
// index. A group label naming the executor party wins; otherwise the side
// is inferred from the field key prefix, defaulting to the client side.
func DetectSide(fields []schema.FieldSpec, index int) string {
	if index >= 0 && index < len(fields) {
		group := strings.ToLower(fields[index].Group)
		for _, marker := range counterpartyGroupMarkers {
			if strings.Contains(group, marker) {
				return SideExecutor
			}
		}
		if strings.HasPrefix(fields[index].Key, SideCustomer+"_") {
			return SideCustomer
		}
	}
	return SideClient
}
