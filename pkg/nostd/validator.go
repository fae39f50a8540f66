package nostd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"
)

// CustomValidator adapts go-playground/validator to echo with english
// error messages.
type CustomValidator struct {
	Validator *validator.Validate
	trans     ut.Translator
}

// TransInit registers the english translations. Must be called once before
// the validator is used.
func (cv *CustomValidator) TransInit() error {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return fmt.Errorf("translator not found: en")
	}
	cv.trans = trans
	return enTranslations.RegisterDefaultTranslations(cv.Validator, trans)
}

func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.Validator.Struct(i)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) && cv.trans != nil {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Translate(cv.trans))
		}
		return echo.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, "; "))
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
