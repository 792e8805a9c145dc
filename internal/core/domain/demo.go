package domain

// Demo account created by the seed command and used by the development
// token route.
const (
	DemoFirstName = "Demo"
	DemoLastName  = "User"
	DemoEmail     = "demo@user.io"
	DemoUsername  = "Demo-lition"
	DemoPassword  = "password"
)
