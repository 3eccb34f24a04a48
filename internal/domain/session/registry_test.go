package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/emochain/internal/domain/pipeline"
	"github.com/okian/emochain/internal/domain/session"
	"github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a registry", t, func() {
		r, err := session.NewRegistry(session.WithMaxSessions(2), session.WithSubjectOptions(pipeline.WithHistorySize(3)))
		convey.So(err, convey.ShouldBeNil)
		convey.So(r.Cap(), convey.ShouldEqual, 2)

		convey.Convey("When the same id is requested twice", func() {
			a := r.Get(ctx, "v-1")
			b := r.Get(ctx, "v-1")

			convey.Convey("Then the same subject is returned", func() {
				convey.So(a, convey.ShouldPointTo, b)
				convey.So(a.ID, convey.ShouldEqual, "v-1")
				convey.So(r.Len(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When capacity is exceeded", func() {
			first := r.Get(ctx, "v-1")
			r.Get(ctx, "v-2")
			r.Get(ctx, "v-1") // v-2 is now least recent
			r.Get(ctx, "v-3")

			convey.Convey("Then the least recently used validator is dropped", func() {
				convey.So(r.Len(), convey.ShouldEqual, 2)
				_, ok := r.Peek("v-2")
				convey.So(ok, convey.ShouldBeFalse)
				s, ok := r.Peek("v-1")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(s, convey.ShouldPointTo, first)
			})

			convey.Convey("And a dropped validator starts with fresh state", func() {
				s := r.Get(ctx, "v-2")
				convey.So(s.Readings(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When a validator is removed", func() {
			r.Get(ctx, "v-1")
			convey.So(r.Remove("v-1"), convey.ShouldBeTrue)
			convey.So(r.Remove("v-1"), convey.ShouldBeFalse)
			convey.So(r.Len(), convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given concurrent first requests for one id", t, func() {
		r, err := session.NewRegistry()
		convey.So(err, convey.ShouldBeNil)

		var wg sync.WaitGroup
		subjects := make([]*pipeline.Subject, 32)
		for i := range subjects {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				subjects[i] = r.Get(ctx, "shared")
			}(i)
		}
		wg.Wait()

		convey.Convey("Then exactly one subject is created", func() {
			for _, s := range subjects {
				convey.So(s, convey.ShouldPointTo, subjects[0])
			}
			convey.So(r.Len(), convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given many validators", t, func() {
		r, _ := session.NewRegistry(session.WithMaxSessions(10))
		for i := 0; i < 25; i++ {
			r.Get(ctx, fmt.Sprintf("v-%d", i))
		}
		convey.So(r.Len(), convey.ShouldEqual, 10)
	})
}
