package request

import "github.com/sangkips/schoolfees-api/internal/application/service"

type UpdateSchoolInfoRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
	EIIN     string `json:"eiin"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
}

func (r UpdateSchoolInfoRequest) ToInput() service.UpdateSchoolInfoInput {
	return service.UpdateSchoolInfoInput{
		Name:     r.Name,
		Address:  r.Address,
		Phone:    r.Phone,
		Email:    r.Email,
		EIIN:     r.EIIN,
		Currency: r.Currency,
	}
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
