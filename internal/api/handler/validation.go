package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/travian22/aksa-2/internal/model"
	"github.com/travian22/aksa-2/internal/service"
	"github.com/travian22/aksa-2/pkg/response"
)

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// RegisterValidators 注册自定义校验规则，并让错误字段名使用 json/form 标签
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("binding 校验引擎不是 validator/v10")
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	if err := v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || hhmmPattern.MatchString(s)
	}); err != nil {
		return err
	}

	return v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, ok := model.NormalizeAttendanceStatus(s)
		return ok
	})
}

// respondBindError 将绑定失败转换为响应：校验失败 422，请求体过大 413，其余 400
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		var first string
		for _, fe := range verrs {
			field := fieldKey(fe)
			if _, exists := fields[field]; exists {
				continue
			}
			msg := validationMessage(fe)
			fields[field] = msg
			if first == "" {
				first = msg
			}
		}
		response.ValidationError(c, summarize(first, len(fields)), fields)
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		msg := fmt.Sprintf("The %s must be a %s.", humanize(typeErr.Field), typeErr.Type.Kind())
		response.ValidationError(c, msg, map[string]string{typeErr.Field: msg})
		return
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	response.BadRequest(c, "Invalid request body")
}

// respondFieldError 业务层字段错误，返回 true 表示已处理
func respondFieldError(c *gin.Context, err error) bool {
	var fe *service.FieldError
	if !errors.As(err, &fe) {
		return false
	}
	response.ValidationError(c, fe.Message, map[string]string{fe.Field: fe.Message})
	return true
}

// respondInternal 记录错误并返回 500
func respondInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	response.InternalError(c)
}

// fieldKey ids[0] → ids.0
// 去掉顶层结构体名和内嵌结构体名（如 EmployeeListRequest），只保留标签名
func fieldKey(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	kept := parts[:0]
	for i, p := range parts {
		if i < len(parts)-1 && p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		kept = append(kept, p)
	}
	ns := strings.Join(kept, ".")
	return strings.NewReplacer("[", ".", "]", "").Replace(ns)
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func validationMessage(fe validator.FieldError) string {
	name := humanize(fieldKey(fe))
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must not be greater than %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s must not be greater than %s.", name, fe.Param())
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("The %s must be at least %s characters.", name, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("The %s must have at least %s items.", name, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", name)
	case "uuid":
		return fmt.Sprintf("The %s must be a valid UUID.", name)
	case "datetime":
		return fmt.Sprintf("The %s does not match the format Y-m-d.", name)
	case "hhmm":
		return fmt.Sprintf("The %s does not match the format H:i.", name)
	case "eqfield":
		return fmt.Sprintf("The %s does not match.", name)
	case "oneof", "attendance_status":
		return fmt.Sprintf("The selected %s is invalid.", name)
	}
	return fmt.Sprintf("The %s is invalid.", name)
}

// summarize 首条错误信息，多个错误时附带剩余数量
func summarize(first string, n int) string {
	switch {
	case n <= 1:
		return first
	case n == 2:
		return first + " (and 1 more error)"
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, n-1)
	}
}
