package repository_test

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ping-crm/dashboard/internal/apitest"
	"github.com/ping-crm/dashboard/internal/models"
	"github.com/ping-crm/dashboard/internal/repository"
	"github.com/ping-crm/dashboard/pkg/apiclient"
	"github.com/ping-crm/dashboard/pkg/cache"
)

var _ = Describe("Repository", func() {
	var (
		stub *apitest.Server
		ctx  context.Context
	)

	BeforeEach(func() {
		stub = apitest.New()
		DeferCleanup(stub.Close)
		ctx = apiclient.WithToken(context.Background(), stub.Token)
	})

	Context("with caching disabled", func() {
		It("always refetches", func() {
			orgs := repository.NewOrganizations(apiclient.New(stub.URL), cache.Nop{}, nil)
			stub.Seed("organizations", map[string]any{"name": "Acme"})

			_, err := orgs.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = orgs.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(stub.Requests(http.MethodGet, "/api/organizations")).To(HaveLen(2))
		})
	})

	Context("with a memory cache", func() {
		var orgs *repository.Repository[models.Organization]

		BeforeEach(func() {
			orgs = repository.NewOrganizations(apiclient.New(stub.URL), cache.NewMemory(time.Minute), nil)
		})

		It("serves repeated reads from the cache", func() {
			id := stub.Seed("organizations", map[string]any{"name": "Acme"})
			for i := 0; i < 3; i++ {
				got, err := orgs.Get(ctx, id)
				Expect(err).NotTo(HaveOccurred())
				Expect(got.Name).To(Equal("Acme"))
			}
			Expect(stub.Requests(http.MethodGet, "/api/organizations/1")).To(HaveLen(1))
		})

		It("invalidates the list after a create", func() {
			list, err := orgs.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())

			_, err = orgs.Create(ctx, apiclient.Fields{"name": "Fresh"})
			Expect(err).NotTo(HaveOccurred())

			list, err = orgs.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})

		It("invalidates the entity after an update", func() {
			id := stub.Seed("organizations", map[string]any{"name": "Before"})
			_, err := orgs.Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())

			_, err = orgs.Update(ctx, id, apiclient.Fields{"name": "After"})
			Expect(err).NotTo(HaveOccurred())

			got, err := orgs.Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("After"))
		})

		It("keeps fields a partial update leaves out", func() {
			id := stub.Seed("organizations", map[string]any{"name": "Acme", "city": "Paris", "email": "a@acme.test"})
			_, err := orgs.Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())

			_, err = orgs.Update(ctx, id, apiclient.Fields{"name": "Acme Two"})
			Expect(err).NotTo(HaveOccurred())

			got, err := orgs.Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Acme Two"))
			Expect(got.City).To(Equal("Paris"))
			Expect(got.Email).To(Equal("a@acme.test"))
		})

		It("never caches searches", func() {
			stub.Seed("organizations", map[string]any{"name": "Acme"})
			_, _ = orgs.List(ctx, "ac")
			_, _ = orgs.List(ctx, "ac")
			Expect(stub.Requests(http.MethodGet, "/api/organizations")).To(HaveLen(2))
		})

		It("never serves one session's entries to another", func() {
			id := stub.Seed("organizations", map[string]any{"name": "Acme"})
			_, err := orgs.Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())

			other := apiclient.WithToken(context.Background(), "someone-else")
			_, err = orgs.Get(other, id)
			Expect(apiclient.IsStatus(err, http.StatusUnauthorized)).To(BeTrue())
			Expect(stub.Requests(http.MethodGet, "/api/organizations/1")).To(HaveLen(2))
		})

		It("does not cache failures", func() {
			_, err := orgs.Get(ctx, 99)
			Expect(apiclient.IsStatus(err, http.StatusNotFound)).To(BeTrue())
			_, err = orgs.Get(ctx, 99)
			Expect(err).To(HaveOccurred())
			Expect(stub.Requests(http.MethodGet, "/api/organizations/99")).To(HaveLen(2))
		})
	})
})
