package models

// DefaultFormulas returns the formulas seeded into an empty library
func DefaultFormulas() []Formula {
	return []Formula{
		{
			Name:        "circle_area",
			Description: strPtr("Area of a circle of radius r"),
			Expression:  "pi() * r ** 2",
			Defaults:    JSON{"r": 1.0},
		},
		{
			Name:        "hypotenuse",
			Description: strPtr("Length of the hypotenuse of a right triangle"),
			Expression:  "sqrt(a ** 2 + b ** 2)",
			Defaults:    JSON{"a": 3.0, "b": 4.0},
		},
		{
			Name:        "compound_interest",
			Description: strPtr("Balance after t years at annual rate r compounded n times a year"),
			Expression:  "p * (1 + r / n) ** (n * t)",
			Defaults:    JSON{"p": 1000.0, "r": 0.05, "n": 12.0, "t": 10.0},
		},
		{
			Name:        "celsius_to_fahrenheit",
			Description: strPtr("Convert c degrees Celsius to Fahrenheit"),
			Expression:  "c * 9 / 5 + 32",
			Defaults:    JSON{"c": 0.0},
		},
		{
			Name:        "pendulum_period",
			Description: strPtr("Small-angle period of a pendulum of length l under gravity g"),
			Expression:  "2 * pi() * sqrt(l / g)",
			Defaults:    JSON{"l": 1.0, "g": 9.80665},
		},
	}
}

func strPtr(s string) *string {
	return &s
}
