package control

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

//go:generate mockgen -destination "mock_motion_test.go" -package $GOPACKAGE -write_package_comment=false github.com/san-kum/polarctl/internal/motion Sensor,Publisher,Observer

func TestControl(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Control Suite")
}
