package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	darf "github.com/fiscaldocs/darf-parser-go"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "err", err)
	}

	logger := log.Default()

	parser := darf.NewParserWith(darf.Config{
		DecodeBarcode: os.Getenv("DECODE_BARCODE") == "true",
		Logger:        logger,
	})

	var remote *darf.RemoteExtractor
	if url := os.Getenv("EXTRACTION_BACKEND_URL"); url != "" {
		remote = darf.NewRemoteExtractor(url, logger)
	}

	r := gin.Default()
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/extract", extractHandler(parser, remote))
	r.POST("/aggregate", aggregateHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

// extractHandler accepts a multipart PDF upload and returns the extracted
// charges and their billing line items. With source=remote the document is
// forwarded to the extraction backend instead of being parsed locally;
// backend failures surface to the caller, unlike content anomalies, which
// the engine absorbs.
func extractHandler(parser *darf.Parser, remote *darf.RemoteExtractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var (
			charges []darf.Charge
			barcode string
		)
		if remote != nil && c.Query("source") == "remote" {
			charges, err = remote.Extract(c.Request.Context(), data)
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
		} else {
			result, err := parser.Parse(bytes.NewReader(data))
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			charges = result.Charges
			barcode = result.Barcode
		}

		c.JSON(http.StatusOK, gin.H{
			"charges":    charges,
			"line_items": darf.LineItems(charges, c.PostForm("order_id")),
			"barcode":    barcode,
		})
	}
}

// aggregateHandler groups line items by tax type under the supplied
// inclusion flags. Absent flags, or absent fields inside them, default to
// included.
func aggregateHandler(c *gin.Context) {
	var req struct {
		LineItems []darf.LineItem `json:"line_items"`
		Flags     json.RawMessage `json:"flags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flags := darf.DefaultInclusionFlags()
	if len(req.Flags) > 0 {
		if err := json.Unmarshal(req.Flags, &flags); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed flags"})
			return
		}
	}

	c.JSON(http.StatusOK, darf.Aggregate(req.LineItems, &flags))
}
