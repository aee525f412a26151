package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/firesafe/estimator/api/v1alpha1"
	"github.com/firesafe/estimator/internal/client"
	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/pkg/requestid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("estimator client", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("Estimate", func() {
		It("posts the request and unwraps the envelope", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/api/estimate"))
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))

				var req v1alpha1.EstimateRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req.BuildingType).To(Equal("residential"))
				Expect(req.Rooms).To(Equal(3))

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(v1alpha1.NewEnvelope(v1alpha1.EstimateResponse{
					PackageType: estimation.PackageSmart,
					TotalCost:   1200,
					EquipmentList: []estimation.LineItem{
						{ID: "smoke", Quantity: 3, UnitPrice: 400, TotalPrice: 1200},
					},
				}))
			}))
			defer server.Close()

			c := client.New(server.URL+"/", 5*time.Second)
			resp, err := c.Estimate(ctx, v1alpha1.EstimateRequest{BuildingType: "residential", Rooms: 3})
			Expect(err).To(BeNil())
			Expect(resp.PackageType).To(Equal(estimation.PackageSmart))
			Expect(resp.TotalCost).To(Equal(1200.0))
			Expect(resp.EquipmentList).To(HaveLen(1))
		})

		It("forwards the request id from the context", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get(requestid.Header)).To(Equal("run-42"))
				_ = json.NewEncoder(w).Encode(v1alpha1.NewEnvelope(v1alpha1.EstimateResponse{}))
			}))
			defer server.Close()

			_, err := client.New(server.URL, 0).Estimate(requestid.ToContext(ctx, "run-42"), v1alpha1.EstimateRequest{BuildingType: "office"})
			Expect(err).To(BeNil())
		})

		It("returns the server message on error", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(v1alpha1.Error{Message: "invalid buildingType: castle"})
			}))
			defer server.Close()

			_, err := client.New(server.URL, 0).Estimate(ctx, v1alpha1.EstimateRequest{BuildingType: "castle"})
			Expect(err).NotTo(BeNil())

			var respErr *client.ResponseError
			Expect(errors.As(err, &respErr)).To(BeTrue())
			Expect(respErr.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(respErr.Message).To(Equal("invalid buildingType: castle"))
		})

		It("keeps a plain text body as the message", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			}))
			defer server.Close()

			_, err := client.New(server.URL, 0).Estimate(ctx, v1alpha1.EstimateRequest{})
			Expect(err).To(MatchError(ContainSubstring("bad gateway")))
		})

		It("fails when the response is not json", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			}))
			defer server.Close()

			_, err := client.New(server.URL, 0).Estimate(ctx, v1alpha1.EstimateRequest{})
			Expect(err).To(MatchError(ContainSubstring("decoding response")))
		})

		It("fails when the server is unreachable", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			url := server.URL
			server.Close()

			_, err := client.New(url, time.Second).Estimate(ctx, v1alpha1.EstimateRequest{})
			Expect(err).NotTo(BeNil())
		})
	})

	Describe("Compare", func() {
		It("returns one estimate per package", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/estimate/compare"))
				_ = json.NewEncoder(w).Encode(v1alpha1.NewEnvelope([]v1alpha1.PackageEstimate{
					{PackageType: estimation.PackageIndependent, TotalCost: 10},
					{PackageType: estimation.PackageLocal, TotalCost: 20},
					{PackageType: estimation.PackageSmart, TotalCost: 30},
				}))
			}))
			defer server.Close()

			estimates, err := client.New(server.URL, 0).Compare(ctx, v1alpha1.EstimateRequest{})
			Expect(err).To(BeNil())
			Expect(estimates).To(HaveLen(3))
			Expect(estimates[2].PackageType).To(Equal(estimation.PackageSmart))
		})
	})

	Describe("Export", func() {
		It("returns the document and the attachment name", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/estimate/export"))
				Expect(r.URL.Query().Get("format")).To(Equal("csv"))
				w.Header().Set("Content-Disposition", `attachment; filename="firesafe-estimate-residential.csv"`)
				_, _ = w.Write([]byte("a,b\n"))
			}))
			defer server.Close()

			content, filename, err := client.New(server.URL, 0).Export(ctx, v1alpha1.EstimateRequest{}, "csv")
			Expect(err).To(BeNil())
			Expect(string(content)).To(Equal("a,b\n"))
			Expect(filename).To(Equal("firesafe-estimate-residential.csv"))
		})
	})

	Describe("GetConfiguration", func() {
		It("reads the stored configuration", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodGet))
				Expect(r.URL.Path).To(Equal("/api/config"))
				_ = json.NewEncoder(w).Encode(v1alpha1.NewEnvelope(estimation.DefaultConfiguration()))
			}))
			defer server.Close()

			cfg, err := client.New(server.URL, 0).GetConfiguration(ctx)
			Expect(err).To(BeNil())
			Expect(cfg.Equipments).To(HaveLen(len(estimation.DefaultEquipments())))
		})
	})

	Describe("Info and HealthCheck", func() {
		It("reads the server version", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/api/info":
					_ = json.NewEncoder(w).Encode(v1alpha1.Info{VersionName: "v1.2.0", GitCommit: "abc"})
				case "/api/health":
					w.WriteHeader(http.StatusServiceUnavailable)
				}
			}))
			defer server.Close()

			c := client.New(server.URL, 0)
			info, err := c.Info(ctx)
			Expect(err).To(BeNil())
			Expect(info.VersionName).To(Equal("v1.2.0"))

			err = c.HealthCheck(ctx)
			var respErr *client.ResponseError
			Expect(errors.As(err, &respErr)).To(BeTrue())
			Expect(respErr.StatusCode).To(Equal(http.StatusServiceUnavailable))
		})
	})
})
