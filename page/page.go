package page

// Main is the station page. {{temperature}}, {{distance}} and {{alertMessage}}
// are filled in by Render on every request; the script then re-fetches this
// same page once a second and copies the new values into place.
const Main = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sensor Station</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            text-align: center;
            background-color: #f4f4f4;
            margin: 0;
            padding: 50px;
        }
        h1 {
            color: #333;
        }
        .data-container {
            font-size: 1.5em;
            font-weight: bold;
            color: #555;
            margin: 20px 0;
        }
        .label {
            font-weight: bold;
            color: #222;
        }
        .alert-box {
            display: none;
            color: white;
            background-color: red;
            padding: 15px;
            font-size: 1.2em;
            font-weight: bold;
            margin: 20px;
            border-radius: 5px;
        }
    </style>
    <script>
        const refreshInterval = 1000;
        let refreshTimer = null;

        function refreshCycle() {
            fetch("/")
            .then(response => {
                if (!response.ok) {
                    throw new Error("status " + response.status);
                }
                return response.text();
            })
            .then(html => {
                const doc = new DOMParser().parseFromString(html, "text/html");
                const temperature = doc.getElementById("temperature");
                const distance = doc.getElementById("distance");
                const alertMessage = doc.getElementById("alertMessage");
                if (!temperature || !distance || !alertMessage) {
                    throw new Error("response is missing sensor fields");
                }

                document.getElementById("temperature").innerText = temperature.innerText;
                document.getElementById("distance").innerText = distance.innerText;

                // hiding leaves the old text in place
                const alertBox = document.getElementById("alertBox");
                const message = alertMessage.textContent.trim();
                if (message !== "") {
                    alertBox.innerText = message;
                    alertBox.style.display = "block";
                } else {
                    alertBox.style.display = "none";
                }
            })
            .catch(error => console.error("Error fetching data:", error));
        }

        function startRefresh() {
            if (refreshTimer === null) {
                refreshTimer = setInterval(refreshCycle, refreshInterval);
            }
        }

        function stopRefresh() {
            if (refreshTimer !== null) {
                clearInterval(refreshTimer);
                refreshTimer = null;
            }
        }

        // pageshow also fires when the page comes back from the back/forward cache
        window.addEventListener("pageshow", startRefresh);
        window.addEventListener("pagehide", stopRefresh);
    </script>
</head>
<body>
    <h1>Sensor Station</h1>

    <div class="alert-box" id="alertBox"></div>

    <div class="data-container">
        <p><span class="label">Temperature:</span> <span id="temperature">{{temperature}}</span> °F</p>
        <p><span class="label">Distance:</span> <span id="distance">{{distance}}</span> cm</p>
    </div>

    <div id="alertMessage" style="display: none;">{{alertMessage}}</div>
</body>
</html>
`
