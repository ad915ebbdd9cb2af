package dash_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/datadash-io/datadash/pkg/dashsdk"
	"github.com/stretchr/testify/require"
)

func TestE2EUploadDownloadChart(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := dashsdk.NewSDKClient(baseURL)
	session := signupAndLogin(t, client, "frank@example.com", "password123")

	payload := "Label,Value\nJan,10\nFeb,20\n,x\n"

	uploaded, err := session.Upload(t.Context(), "revenue.csv", strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, "revenue.csv", uploaded.File.OriginalName)
	require.NotEqual(t, "revenue.csv", uploaded.File.Filename)
	require.Equal(t, int64(len(payload)), uploaded.File.SizeBytes)

	// The stored bytes come back unchanged.
	raw, err := client.Download(t.Context(), uploaded.File.Filename)
	require.NoError(t, err)
	require.Equal(t, payload, string(raw))

	// One series drives every view.
	chart, err := session.Chart(t.Context(), uploaded.File.Filename)
	require.NoError(t, err)
	require.Equal(t, []string{"Jan", "Feb", "Row 3"}, chart.Series.Labels)
	require.Len(t, chart.Series.Datasets, 1)
	require.Equal(t, []float64{10, 20, 0}, chart.Series.Datasets[0].Data)
	require.Equal(t, []string{"bar", "pie", "line"}, chart.Views)

	// Unknown stored names are a 404 on both surfaces.
	_, err = client.Download(t.Context(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assertAPIError(t, err, http.StatusNotFound)

	_, err = session.Chart(t.Context(), "not-a-stored-name")
	assertAPIError(t, err, http.StatusNotFound)
}

func TestE2EUploadRequiresAuth(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := dashsdk.NewSDKClient(baseURL)
	anonymous := client.NewSessionFromToken("")

	_, err := anonymous.Upload(t.Context(), "x.csv", strings.NewReader("Label,Value\n"))
	assertAPIError(t, err, http.StatusUnauthorized)
}
