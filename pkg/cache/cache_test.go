package cache

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var _ = Describe("Memory", func() {
	var (
		m   *Memory
		ctx = context.Background()
		now time.Time
	)

	BeforeEach(func() {
		now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		m = NewMemory(time.Minute)
		m.now = func() time.Time { return now }
	})

	It("stores and loads values", func() {
		Expect(m.Set(ctx, Key("u1", "organizations", 1), item{ID: 1, Name: "Acme"})).To(Succeed())
		var got item
		found, err := m.Get(ctx, Key("u1", "organizations", 1), &got)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(got).To(Equal(item{ID: 1, Name: "Acme"}))
	})

	It("expires entries after the TTL", func() {
		Expect(m.Set(ctx, "k", item{ID: 1})).To(Succeed())
		now = now.Add(time.Minute)
		var got item
		found, err := m.Get(ctx, "k", &got)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("deletes keys", func() {
		Expect(m.Set(ctx, "a", 1)).To(Succeed())
		Expect(m.Set(ctx, "b", 2)).To(Succeed())
		Expect(m.Delete(ctx, "a", "b")).To(Succeed())
		var n int
		found, _ := m.Get(ctx, "a", &n)
		Expect(found).To(BeFalse())
	})
})

var _ = Describe("Nop", func() {
	It("always misses", func() {
		var c Cache = Nop{}
		Expect(c.Set(context.Background(), "k", 1)).To(Succeed())
		var n int
		found, err := c.Get(context.Background(), "k", &n)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})
})

var _ = Describe("Key", func() {
	It("namespaces by user and kind", func() {
		Expect(Key("u1", "contacts", "list")).To(Equal("crm:u1:contacts:list"))
		Expect(Key("u1", "contacts", 7)).To(Equal("crm:u1:contacts:7"))
		Expect(Key("u2", "contacts", 7)).NotTo(Equal(Key("u1", "contacts", 7)))
	})
})
