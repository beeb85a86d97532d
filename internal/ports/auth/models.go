package auth

// Department del dashboard al que pertenece el usuario.
type Department string

const (
	DepartmentPharma    Department = "pharma"
	DepartmentLab       Department = "lab"
	DepartmentRadiology Department = "radiology"
)

// ParseDepartment normaliza; devuelve false si no es un departamento conocido.
func ParseDepartment(s string) (Department, bool) {
	switch d := Department(s); d {
	case DepartmentPharma, DepartmentLab, DepartmentRadiology:
		return d, true
	default:
		return "", false
	}
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID     string
	Username   string
	Department Department
}
