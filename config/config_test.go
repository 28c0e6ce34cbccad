package config

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Load", func() {
	setEnv := func(key, value string) {
		prev, had := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	It("applies defaults", func() {
		setEnv("APP_ENV", "development")
		cfg, err := Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Cache.Driver).To(Equal("none"))
		Expect(cfg.Session.ExpireHours).To(Equal(168))
		Expect(cfg.OTel.Enabled()).To(BeFalse())
	})

	It("trims the trailing slash of the API base URL", func() {
		setEnv("API_BASE_URL", "http://api.test/")
		cfg, err := Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.API.BaseURL).To(Equal("http://api.test"))
	})

	It("rejects unknown cache drivers", func() {
		setEnv("CACHE_DRIVER", "memcached")
		_, err := Load()
		Expect(err).To(MatchError(ContainSubstring("CACHE_DRIVER")))
	})

	It("requires a session secret in production", func() {
		setEnv("APP_ENV", "production")
		setEnv("SESSION_SECRET", "")
		_, err := Load()
		Expect(err).To(MatchError(ContainSubstring("SESSION_SECRET")))
	})

	It("splits CORS origins", func() {
		s := ServerConfig{CORSAllowedOrigins: " http://a.test, ,http://b.test"}
		Expect(s.SplitOrigins()).To(Equal([]string{"http://a.test", "http://b.test"}))
	})
})
