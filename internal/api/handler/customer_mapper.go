package handler

import "github.com/customer-directory/customer-api/internal/core/ports"

// --- Request → Service input ---

func toRegisterInput(req registerCustomerRequest) ports.RegisterCustomerInput {
	in := ports.RegisterCustomerInput{
		Name:     req.Name,
		Password: req.Password,
		Email:    req.Email,
		Gender:   req.Gender,
	}
	if req.Age != nil {
		in.Age = *req.Age
	}
	return in
}

func toUpdateInput(req updateCustomerRequest) ports.UpdateCustomerInput {
	return ports.UpdateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	}
}
