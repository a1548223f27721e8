package services

import (
	"fmt"
	"time"

	"ComandaApp/app/database"
	"ComandaApp/app/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EmployeeService handles employee operations
type EmployeeService struct {
	db *gorm.DB
}

// NewEmployeeService creates a new employee service
func NewEmployeeService() *EmployeeService {
	return &EmployeeService{
		db: database.GetDB(),
	}
}

// GetEmployees gets all employees (active and inactive)
func (s *EmployeeService) GetEmployees() ([]models.Employee, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	var employees []models.Employee
	err := s.db.Find(&employees).Error
	return employees, err
}

// GetEmployee gets an employee by ID
func (s *EmployeeService) GetEmployee(id uint) (*models.Employee, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	var employee models.Employee
	err := s.db.First(&employee, id).Error
	return &employee, err
}

// CreateEmployee creates a new employee with a hashed access PIN
func (s *EmployeeService) CreateEmployee(employee *models.Employee, pin string) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	if pin == "" {
		return fmt.Errorf("PIN is required")
	}
	if len(pin) < 4 {
		return fmt.Errorf("PIN must be at least 4 digits")
	}

	hashedPIN, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	employee.PIN = string(hashedPIN)

	return s.db.Create(employee).Error
}

// UpdateEmployee updates an employee
func (s *EmployeeService) UpdateEmployee(employee *models.Employee) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.Save(employee).Error
}

// UpdateEmployeePIN updates an employee's PIN
func (s *EmployeeService) UpdateEmployeePIN(employeeID uint, newPIN string) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if len(newPIN) < 4 {
		return fmt.Errorf("PIN must be at least 4 digits")
	}

	hashedPIN, err := bcrypt.GenerateFromPassword([]byte(newPIN), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.Model(&models.Employee{}).Where("id = ?", employeeID).
		Update("pin", string(hashedPIN)).Error
}

// DeleteEmployee soft deletes an employee
func (s *EmployeeService) DeleteEmployee(id uint) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.Delete(&models.Employee{}, id).Error
}

// AuthenticateByPIN authenticates an employee by PIN
func (s *EmployeeService) AuthenticateByPIN(pin string) (*models.Employee, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	var employees []models.Employee

	if err := s.db.Where("is_active = ?", true).Find(&employees).Error; err != nil {
		return nil, err
	}

	for _, employee := range employees {
		if err := bcrypt.CompareHashAndPassword([]byte(employee.PIN), []byte(pin)); err == nil {
			now := time.Now()
			employee.LastLoginAt = &now
			s.db.Save(&employee)
			return &employee, nil
		}
	}

	return nil, fmt.Errorf("invalid PIN")
}

// DeactivateEmployee deactivates an employee
func (s *EmployeeService) DeactivateEmployee(id uint) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.Model(&models.Employee{}).Where("id = ?", id).Update("is_active", false).Error
}
