package handlers

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yoockh/devconnector/internal/utils"
)

func init() {
	// report json names ("fieldofstudy") instead of Go field names in validation errors
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// writeError renders err and attaches it to the context for the request logger.
// Client errors get {"msg"} or {"errors"}; everything else is an opaque 500.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if status < http.StatusInternalServerError && errors.As(err, &ae) {
		if len(ae.Fields) > 0 {
			c.JSON(status, gin.H{"errors": ae.Fields})
			return
		}
		c.JSON(status, gin.H{"msg": ae.Message})
		return
	}

	c.String(http.StatusInternalServerError, "Server Error")
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "No token, authorization denied", nil))
	return "", false
}

// bindJSON decodes the body into dst and runs its binding rules, collecting every
// failing field. A field's `msg` tag is the client-facing message. An empty body
// is validated as an empty object.
func bindJSON(c *gin.Context, op string, dst any) error {
	err := c.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(dst)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return utils.E(utils.CodeInvalidArgument, op, "Invalid request body", err)
	}

	t := reflect.TypeOf(dst).Elem()
	fields := make([]utils.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Field() + " is invalid"
		if sf, ok := t.FieldByName(fe.StructField()); ok && sf.Tag.Get("msg") != "" {
			msg = sf.Tag.Get("msg")
		}
		fields = append(fields, utils.FieldError{
			Msg:      msg,
			Param:    fe.Field(),
			Location: "body",
			Value:    fe.Value(),
		})
	}
	return utils.Invalid(op, fields...)
}
