package bubble_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBubble(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bubble Suite")
}
