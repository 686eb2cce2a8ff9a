package server_test

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/thealiamalia/nyami-bank-state/internal/config"
	"github.com/thealiamalia/nyami-bank-state/internal/host"
	"github.com/thealiamalia/nyami-bank-state/internal/server"
	"github.com/thealiamalia/nyami-bank-state/internal/state"
)

func freePort() int {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func canConnect(port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

type response struct {
	Status  int
	Headers http.Header
	Body    string
}

func get(url string) response {
	resp, err := http.Get(url)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return response{Status: resp.StatusCode, Headers: resp.Header, Body: string(body)}
}

var _ = Describe("Status Server", func() {
	var (
		widgets *host.Memory
		srv     *server.Server
		port    int
	)

	BeforeEach(func() {
		widgets = host.NewMemory()
		srv = server.New(state.NewReader(widgets, zerolog.Nop()), nil, zerolog.Nop(), server.DefaultOptions())
		port = freePort()
	})

	AfterEach(func() {
		Expect(srv.Stop()).To(Succeed())
	})

	Describe("GET /state", func() {
		BeforeEach(func() {
			Expect(srv.Start(config.Config{EnableHTTP: true, Port: port})).To(Succeed())
		})

		It("should report false while the bank widget is hidden", func() {
			widgets.SetHidden(host.BankContainer, true)

			resp := get(srv.URL())
			Expect(resp.Status).To(Equal(http.StatusOK))
			Expect(resp.Body).To(Equal(`{"bankOpen":false}`))
		})

		It("should report true while the bank widget is visible", func() {
			widgets.SetHidden(host.BankContainer, false)

			resp := get(srv.URL())
			Expect(resp.Status).To(Equal(http.StatusOK))
			Expect(resp.Body).To(Equal(`{"bankOpen":true}`))
		})

		It("should report false when the widget is absent", func() {
			resp := get(srv.URL())
			Expect(resp.Body).To(Equal(`{"bankOpen":false}`))
		})

		It("should degrade to false on host faults instead of erroring", func() {
			widgets.SetHidden(host.BankContainer, false)
			widgets.SetFault(host.ErrNotReady)

			resp := get(srv.URL())
			Expect(resp.Status).To(Equal(http.StatusOK))
			Expect(resp.Body).To(Equal(`{"bankOpen":false}`))
		})

		It("should set JSON and no-store headers", func() {
			resp := get(srv.URL())
			Expect(resp.Headers.Get("Content-Type")).To(Equal("application/json; charset=utf-8"))
			Expect(resp.Headers.Get("Cache-Control")).To(Equal("no-store"))
		})

		It("should track the widget across requests", func() {
			widgets.SetHidden(host.BankContainer, false)
			Expect(get(srv.URL()).Body).To(Equal(`{"bankOpen":true}`))

			widgets.SetHidden(host.BankContainer, true)
			Expect(get(srv.URL()).Body).To(Equal(`{"bankOpen":false}`))
		})

		It("should return a structured 404 for other paths", func() {
			resp := get("http://127.0.0.1:" + strconv.Itoa(port) + "/")
			Expect(resp.Status).To(Equal(http.StatusNotFound))

			var body map[string]string
			Expect(json.Unmarshal([]byte(resp.Body), &body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("error", "not_found"))
		})
	})

	Describe("Lifecycle", func() {
		It("should not listen when HTTP is disabled", func() {
			Expect(srv.Start(config.Config{EnableHTTP: false, Port: port})).To(Succeed())
			Expect(srv.Running()).To(BeFalse())
			Expect(canConnect(port)).To(BeFalse())
		})

		It("should refuse privileged ports without crashing", func() {
			err := srv.Start(config.Config{EnableHTTP: true, Port: 80})
			Expect(err).To(MatchError(config.ErrInvalidPort))
			Expect(srv.Running()).To(BeFalse())
		})

		It("should release the port on stop", func() {
			Expect(srv.Start(config.Config{EnableHTTP: true, Port: port})).To(Succeed())
			Expect(canConnect(port)).To(BeTrue())

			Expect(srv.Stop()).To(Succeed())
			Expect(canConnect(port)).To(BeFalse())
		})

		It("should move to the new port on restart", func() {
			Expect(srv.Start(config.Config{EnableHTTP: true, Port: port})).To(Succeed())

			next := freePort()
			for next == port {
				next = freePort()
			}
			Expect(srv.Restart(config.Config{EnableHTTP: true, Port: next})).To(Succeed())

			Expect(canConnect(port)).To(BeFalse())
			Expect(canConnect(next)).To(BeTrue())
		})

		It("should survive back-to-back restarts on the same port", func() {
			cfg := config.Config{EnableHTTP: true, Port: port}
			Expect(srv.Restart(cfg)).To(Succeed())
			Expect(srv.Restart(cfg)).To(Succeed())

			Expect(srv.Running()).To(BeTrue())
			Expect(get(srv.URL()).Status).To(Equal(http.StatusOK))
		})

		It("should only ever bind the loopback address", func() {
			Expect(srv.Start(config.Config{EnableHTTP: true, Port: port})).To(Succeed())

			addr, ok := srv.Addr().(*net.TCPAddr)
			Expect(ok).To(BeTrue())
			Expect(addr.IP.IsLoopback()).To(BeTrue())
		})
	})
})
