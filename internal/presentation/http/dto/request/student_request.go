package request

import "github.com/sangkips/schoolfees-api/internal/application/service"

type CreateStudentRequest struct {
	StudentID     string `json:"studentId" binding:"required"`
	Name          string `json:"name" binding:"required"`
	ClassName     string `json:"className" binding:"required"`
	Group         string `json:"group"`
	Section       string `json:"section"`
	Session       string `json:"session" binding:"required"`
	Roll          string `json:"roll"`
	GuardianName  string `json:"guardianName"`
	GuardianPhone string `json:"guardianPhone"`
}

func (r CreateStudentRequest) ToInput() service.CreateStudentInput {
	return service.CreateStudentInput{
		StudentID:     r.StudentID,
		Name:          r.Name,
		ClassName:     r.ClassName,
		Group:         r.Group,
		Section:       r.Section,
		Session:       r.Session,
		Roll:          r.Roll,
		GuardianName:  r.GuardianName,
		GuardianPhone: r.GuardianPhone,
	}
}

type UpdateStudentRequest struct {
	Name          *string `json:"name"`
	ClassName     *string `json:"className"`
	Group         *string `json:"group"`
	Section       *string `json:"section"`
	Session       *string `json:"session"`
	Roll          *string `json:"roll"`
	GuardianName  *string `json:"guardianName"`
	GuardianPhone *string `json:"guardianPhone"`
}

func (r UpdateStudentRequest) ToInput() service.UpdateStudentInput {
	return service.UpdateStudentInput{
		Name:          r.Name,
		ClassName:     r.ClassName,
		Group:         r.Group,
		Section:       r.Section,
		Session:       r.Session,
		Roll:          r.Roll,
		GuardianName:  r.GuardianName,
		GuardianPhone: r.GuardianPhone,
	}
}

type StudentListQuery struct {
	Search    string `form:"search"`
	ClassName string `form:"class"`
	Section   string `form:"section"`
	Session   string `form:"session"`
	WithDue   bool   `form:"with_due"`
}

func (q StudentListQuery) ToFilter() service.StudentFilter {
	return service.StudentFilter{
		Search:    q.Search,
		ClassName: q.ClassName,
		Section:   q.Section,
		Session:   q.Session,
		WithDue:   q.WithDue,
	}
}
