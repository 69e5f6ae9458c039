// Copyright 2025 The CityPages Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package validate

import (
	"github.com/citypages/citypages/pkg/service/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var instance *Validator

func InitValidator() {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	instance = v
}

func Get() *Validator {
	return instance
}

type Validator struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

func NewValidator() (*Validator, error) {
	vali := binding.Validator.Engine().(*validator.Validate)
	enT := en.New()
	uni := ut.New(enT, enT)
	trans, _ := uni.GetTranslator("en")
	if e := enTranslations.RegisterDefaultTranslations(vali, trans); e != nil {
		return nil, e
	}

	v := &Validator{
		Validator:  vali,
		Translator: trans,
	}
	v.Validator.RegisterStructValidation(providerStructLevelValidation, models.Provider{})
	return v, nil
}

// providerStructLevelValidation enforces the tier-dependent description
// ceiling at bind time. Image counts are checked in the handler because
// the JSON column needs decoding first.
func providerStructLevelValidation(sl validator.StructLevel) {
	provider := sl.Current().Interface().(models.Provider)
	if len(provider.Description) > provider.DescriptionLimit() {
		sl.ReportError(provider.Description, "Description", "description", "max", "")
	}
}
