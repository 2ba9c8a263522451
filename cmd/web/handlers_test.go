package main

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createSession starts an anonymous investigator session for the client.
func createSession(t *testing.T, client *http.Client, url string) {
	t.Helper()
	resp, err := client.Post(url+"/api/session", "application/json", nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func getJSON(t *testing.T, client *http.Client, url string) (int, map[string]any) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	return decodeJSON(t, resp)
}

func postJSON(t *testing.T, client *http.Client, url string, body string) (int, map[string]any) {
	t.Helper()
	resp, err := client.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return decodeJSON(t, resp)
}

func decodeJSON(t *testing.T, resp *http.Response) (int, map[string]any) {
	t.Helper()
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func Test_application_home(t *testing.T) {
	url := startTestServer(t, os.Stdout)
	client := newTestClient(t)

	res, err := client.Get(url)
	require.NoError(t, err)
	defer func(body io.ReadCloser) {
		err = body.Close()
		assert.NoError(t, err)
	}(res.Body)

	require.Equal(t, http.StatusOK, res.StatusCode)

	doc, err := goquery.NewDocumentFromReader(res.Body)
	require.NoError(t, err)

	require.Equal(t, 1, doc.Find("h1:contains('SPECTER')").Length())
	require.Equal(t, 1, doc.Find("h2:contains('The Static House')").Length())
	require.Equal(t, 1, doc.Find("h2:contains('Echoes of Blackwood')").Length())
	form := doc.Find("form[action='/api/session']")
	require.Equal(t, 1, form.Length())
	_, ok := form.Find("input[name=csrf_token]").Attr("value")
	require.True(t, ok, "csrf_token not found in session form")

	// Submitting the form starts a session and redirects back home, where the
	// form is no longer offered.
	res, err = client.Post(url+"/api/session", "application/x-www-form-urlencoded", strings.NewReader(""))
	require.NoError(t, err)
	defer func(body io.ReadCloser) {
		err = body.Close()
		assert.NoError(t, err)
	}(res.Body)
	require.Equal(t, http.StatusOK, res.StatusCode)

	doc, err = goquery.NewDocumentFromReader(res.Body)
	require.NoError(t, err)
	require.Equal(t, 0, doc.Find("form[action='/api/session']").Length())
}

func Test_application_listCases(t *testing.T) {
	url := startTestServer(t, os.Stdout)
	client := newTestClient(t)

	status, payload := getJSON(t, client, url+"/api/cases")
	require.Equal(t, http.StatusOK, status)
	cases, ok := payload["cases"].([]any)
	require.True(t, ok)
	require.Len(t, cases, 2)

	status, payload = getJSON(t, client, url+"/api/cases/static")
	require.Equal(t, http.StatusOK, status)
	c, ok := payload["case"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "The Static House", c["title"])
	// Solutions never leak through the case endpoint.
	assert.NotContains(t, c, "surfaceSolution")
	assert.NotContains(t, c, "trueSolution")

	status, _ = getJSON(t, client, url+"/api/cases/no-such-case")
	require.Equal(t, http.StatusNotFound, status)
}

func Test_application_hintsRequireSession(t *testing.T) {
	url := startTestServer(t, os.Stdout)
	client := newTestClient(t)

	status, payload := getJSON(t, client, url+"/api/cases/static/hints")
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, payload, "error")
}

func Test_application_hintFlow(t *testing.T) {
	url := startTestServer(t, os.Stdout)
	client := newTestClient(t)
	createSession(t, client, url)

	status, payload := getJSON(t, client, url+"/api/cases/static/hints")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), payload["hintsRevealed"])
	assert.Equal(t, float64(5), payload["totalHints"])
	assert.Empty(t, payload["hints"])
	assert.Equal(t, true, payload["hasMoreHints"])

	status, payload = postJSON(t, client, url+"/api/cases/static/hints", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), payload["hintsRevealed"])
	assert.Equal(t,
		"Pay close attention to the property records. Why was the house vacant for 11 years?",
		payload["newHint"])

	for i := 0; i < 4; i++ {
		status, payload = postJSON(t, client, url+"/api/cases/static/hints", "")
		require.Equal(t, http.StatusOK, status)
	}
	assert.Equal(t, float64(5), payload["hintsRevealed"])
	assert.Equal(t, false, payload["hasMoreHints"])

	status, _ = postJSON(t, client, url+"/api/cases/static/hints", "")
	require.Equal(t, http.StatusConflict, status)
}

func Test_application_theoryFlow(t *testing.T) {
	url := startTestServer(t, os.Stdout)
	client := newTestClient(t)
	createSession(t, client, url)

	status, _ := postJSON(t, client, url+"/api/cases/static/submit-theory", `{"theory": "too short"}`)
	require.Equal(t, http.StatusBadRequest, status)

	status, payload := postJSON(t, client, url+"/api/cases/static/submit-theory",
		`{"theory": "It was nothing, just my imagination running wild tonight"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "incorrect", payload["result"])
	assert.Nil(t, payload["revealedSolution"])
	assert.Equal(t, float64(1), payload["attempts"])

	status, payload = getJSON(t, client, url+"/api/cases/static/progress")
	require.Equal(t, http.StatusOK, status)
	progress, ok := payload["progress"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), progress["totalAttempts"])
	assert.Nil(t, progress["completedAt"])

	status, payload = postJSON(t, client, url+"/api/cases/static/submit-theory",
		`{"theory": "Margaret Holloway never left. Her remains were sealed behind the upstairs hallway walls."}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "true", payload["result"])
	require.NotNil(t, payload["revealedSolution"])
	assert.Contains(t, payload["revealedSolution"], "Margaret Holloway never disappeared")

	status, payload = getJSON(t, client, url+"/api/cases/static/progress")
	require.Equal(t, http.StatusOK, status)
	progress, ok = payload["progress"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "true", progress["bestResult"])
	assert.NotNil(t, progress["completedAt"])
	assert.Equal(t, float64(2), progress["totalAttempts"])
}

func Test_application_progressBeforeFirstInteraction(t *testing.T) {
	url := startTestServer(t, os.Stdout)
	client := newTestClient(t)
	createSession(t, client, url)

	status, payload := getJSON(t, client, url+"/api/cases/static/progress")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, payload["progress"])
}

func Test_application_paidCaseWithoutEntitlement(t *testing.T) {
	url := startTestServer(t, os.Stdout)
	client := newTestClient(t)
	createSession(t, client, url)

	status, _ := getJSON(t, client, url+"/api/cases/echoes/evidence")
	require.Equal(t, http.StatusForbidden, status)

	status, _ = getJSON(t, client, url+"/api/cases/echoes/hints")
	require.Equal(t, http.StatusForbidden, status)

	status, _ = getJSON(t, client, url+"/api/cases/no-such-case/hints")
	require.Equal(t, http.StatusNotFound, status)
}

func Test_application_evidenceFlow(t *testing.T) {
	url := startTestServer(t, os.Stdout)
	client := newTestClient(t)
	createSession(t, client, url)

	status, payload := getJSON(t, client, url+"/api/cases/static/evidence")
	require.Equal(t, http.StatusOK, status)
	evidence, ok := payload["evidence"].([]any)
	require.True(t, ok)
	require.Len(t, evidence, 2)
	first, ok := evidence[0].(map[string]any)
	require.True(t, ok)
	evidenceID, ok := first["id"].(string)
	require.True(t, ok)

	status, payload = postJSON(t, client,
		url+"/api/cases/static/evidence/"+evidenceID+"/mark",
		`{"reviewed": true, "note": "Vacancy lines up with the disappearance."}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, payload["reviewed"])

	status, payload = getJSON(t, client, url+"/api/cases/static/evidence")
	require.Equal(t, http.StatusOK, status)
	notes, ok := payload["notes"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, notes, evidenceID)

	status, _ = postJSON(t, client,
		url+"/api/cases/static/evidence/not-an-evidence-id/mark", `{"reviewed": true}`)
	require.Equal(t, http.StatusBadRequest, status)
}

func Test_application_updateProfile(t *testing.T) {
	url := startTestServer(t, os.Stdout)
	client := newTestClient(t)
	createSession(t, client, url)

	status, payload := postJSON(t, client, url+"/api/profile",
		`{"displayName": "Agent Vance", "email": "vance@example.com"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Agent Vance", payload["displayName"])
	assert.Equal(t, "vance@example.com", payload["email"])
}
