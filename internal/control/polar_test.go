package control

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/san-kum/polarctl/internal/motion"
)

var _ = Describe("Polar", func() {
	var (
		mockCtrl  *gomock.Controller
		sensor    *MockSensor
		publisher *MockPublisher
		ctx       context.Context
		ctrl      *Polar
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sensor = NewMockSensor(mockCtrl)
		publisher = NewMockPublisher(mockCtrl)
		ctx = context.Background()
		ctrl = NewPolar(motion.DefaultScale(), sensor, publisher)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should publish heading and range for a successful read", func() {
		sensor.EXPECT().Read(ctx).Return(motion.Sample{X: 1.0, Y: 2.0}, nil)

		var got motion.Command
		publisher.EXPECT().Publish(gomock.Any()).
			Do(func(cmd motion.Command) { got = cmd }).
			Times(1)

		cmd, ok := ctrl.Tick(ctx)

		Expect(ok).To(BeTrue())
		Expect(got).To(Equal(cmd))
		Expect(cmd.Angular).To(BeNumerically("~", 1.107, 1e-3))
		Expect(cmd.Linear).To(BeNumerically("~", 2.236, 1e-3))
		Expect(cmd.Angular).To(Equal(math.Atan2(2.0, 1.0)))
		Expect(cmd.Linear).To(Equal(math.Sqrt(5.0)))
	})

	It("should not publish when the read fails", func() {
		sensor.EXPECT().Read(ctx).Return(motion.Sample{X: 9, Y: 9}, motion.ErrSensorRead)
		publisher.EXPECT().Publish(gomock.Any()).Times(0)

		cmd, ok := ctrl.Tick(ctx)

		Expect(ok).To(BeFalse())
		Expect(cmd).To(Equal(motion.Command{}))
	})

	It("should treat a non-finite sample as a failed read", func() {
		sensor.EXPECT().Read(ctx).Return(motion.Sample{X: math.NaN(), Y: 1}, nil)
		publisher.EXPECT().Publish(gomock.Any()).Times(0)

		_, ok := ctrl.Tick(ctx)

		Expect(ok).To(BeFalse())
	})

	It("should publish the same command for repeated identical readings", func() {
		sensor.EXPECT().Read(ctx).Return(motion.Sample{X: -3, Y: 0.5}, nil).Times(3)

		var published []motion.Command
		publisher.EXPECT().Publish(gomock.Any()).
			Do(func(cmd motion.Command) { published = append(published, cmd) }).
			Times(3)

		for i := 0; i < 3; i++ {
			ctrl.Tick(ctx)
		}

		Expect(published).To(HaveLen(3))
		Expect(published[1]).To(Equal(published[0]))
		Expect(published[2]).To(Equal(published[0]))
	})

	It("should recover on the tick after a failed read", func() {
		gomock.InOrder(
			sensor.EXPECT().Read(ctx).Return(motion.Sample{}, errors.New("bus timeout")),
			sensor.EXPECT().Read(ctx).Return(motion.Sample{X: 0, Y: 1}, nil),
		)
		publisher.EXPECT().Publish(motion.Command{Angular: math.Pi / 2, Linear: 1}).Times(1)

		_, ok := ctrl.Tick(ctx)
		Expect(ok).To(BeFalse())

		_, ok = ctrl.Tick(ctx)
		Expect(ok).To(BeTrue())
		Expect(ctrl.Ticks()).To(Equal(2))
	})

	Context("with observers", func() {
		var observer *MockObserver

		BeforeEach(func() {
			observer = NewMockObserver(mockCtrl)
			ctrl.AddObserver(observer)
		})

		It("should report published ticks after publishing", func() {
			sample := motion.Sample{X: 3, Y: 4}
			sensor.EXPECT().Read(ctx).Return(sample, nil)
			gomock.InOrder(
				publisher.EXPECT().Publish(gomock.Any()),
				observer.EXPECT().OnTick(1, sample, gomock.Any()),
			)

			ctrl.Tick(ctx)
		})

		It("should report skipped ticks with the tick number", func() {
			sensor.EXPECT().Read(ctx).Return(motion.Sample{}, motion.ErrSensorRead)
			observer.EXPECT().OnSkip(1, gomock.Any()).
				Do(func(tick int, err error) {
					Expect(errors.Is(err, motion.ErrSensorRead)).To(BeTrue())

					var tickErr *motion.TickError
					Expect(errors.As(err, &tickErr)).To(BeTrue())
					Expect(tickErr.Tick).To(Equal(1))
				})

			ctrl.Tick(ctx)
		})
	})
})

var _ = Describe("Polar Compute", func() {
	samples := []motion.Sample{
		{X: 1, Y: 2},
		{X: -1, Y: 2},
		{X: -1, Y: -2},
		{X: 1, Y: -2},
		{X: 0.001, Y: 1e6},
		{X: -7.5, Y: 0},
	}

	It("should match the standard library for unit scale", func() {
		ctrl := NewPolar(motion.DefaultScale(), nil, nil)
		for _, s := range samples {
			cmd := ctrl.Compute(s)
			Expect(cmd.Angular).To(Equal(math.Atan2(s.Y, s.X)))
			Expect(cmd.Linear).To(Equal(math.Sqrt(s.X*s.X + s.Y*s.Y)))
			Expect(cmd.Linear).To(BeNumerically(">=", 0))
		}
	})

	It("should scale each output linearly", func() {
		base := NewPolar(motion.Scale{Rotation: 0.75, Speed: 1.5}, nil, nil)
		doubled := NewPolar(motion.Scale{Rotation: 1.5, Speed: 3.0}, nil, nil)
		for _, s := range samples {
			a := base.Compute(s)
			b := doubled.Compute(s)
			Expect(b.Angular).To(BeNumerically("~", 2*a.Angular, 1e-12))
			Expect(b.Linear).To(BeNumerically("~", 2*a.Linear, 1e-9))
		}
	})

	It("should keep the captured scale", func() {
		scale := motion.Scale{Rotation: 2, Speed: 0.5}
		Expect(NewPolar(scale, nil, nil).Scale()).To(Equal(scale))
	})
})
