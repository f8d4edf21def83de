package user

type Type string

const (
	TypeEmployee Type = "employee"
	TypeStudent  Type = "student"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// User is an identity on the roster. Users are never edited in place; a change is a
// delete followed by an add.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       Type   `json:"type"`
	Department string `json:"department"`
	Role       Role   `json:"role"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// IsManager checks if user is manager or admin
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// DefaultRoster is the fixed roster restored by a full reset.
func DefaultRoster() []User {
	return []User{
		{ID: "1", Name: "John Smith", Type: TypeEmployee, Department: "Engineering", Role: RoleAdmin, Email: "john@company.com"},
		{ID: "2", Name: "Sarah Johnson", Type: TypeEmployee, Department: "Marketing", Role: RoleManager, Email: "sarah@company.com"},
		{ID: "3", Name: "Mike Wilson", Type: TypeEmployee, Department: "Sales", Role: RoleUser, Email: "mike@company.com"},
		{ID: "4", Name: "Emma Davis", Type: TypeStudent, Department: "Computer Science", Role: RoleUser},
		{ID: "5", Name: "Alex Brown", Type: TypeEmployee, Department: "HR", Role: RoleUser, Email: "alex@company.com"},
		{ID: "6", Name: "Lisa Anderson", Type: TypeStudent, Department: "Business", Role: RoleUser},
	}
}

// Departments lists the distinct departments of users in roster order.
func Departments(users []User) []string {
	seen := make(map[string]struct{}, len(users))
	out := make([]string, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.Department]; ok {
			continue
		}
		seen[u.Department] = struct{}{}
		out = append(out, u.Department)
	}
	return out
}
