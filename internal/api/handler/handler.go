package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/polaroad/internal/model"
	"github.com/d60-Lab/polaroad/internal/service"
)

// Handler HTTP 处理器集合
type Handler struct {
	posts   service.PostService
	cards   service.CardService
	members service.MemberService
}

func New(posts service.PostService, cards service.CardService, members service.MemberService) *Handler {
	return &Handler{posts: posts, cards: cards, members: members}
}

// RegisterValidations 给 gin binding 挂上枚举校验，body 里带非法枚举直接 400
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("postconcept", func(fl validator.FieldLevel) bool {
		return model.PostConcept(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("postregion", func(fl validator.FieldLevel) bool {
		return model.PostRegion(fl.Field().String()).Valid()
	})
}
