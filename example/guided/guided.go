package main

import (
	"flag"
	"log"

	"github.com/silkit/go-silhouette"
	"github.com/silkit/go-silhouette/guideline"
	"github.com/silkit/go-silhouette/render"
	"github.com/silkit/go-silhouette/session"
	"gocv.io/x/gocv"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	imgFile := flag.String("i", "../data/frame.jpg", "Camera frame image file")
	maskFile := flag.String("m", "../data/frame-mask.png", "Binary segmentation mask image file")
	category := flag.String("c", "front", "Capture category the guideline belongs to")
	guideDir := flag.String("d", "../data/guidelines", "Directory holding stored guideline files")
	saveFile := flag.String("o", "../data/frame-out.jpg", "The output JPG file with contour overlay")
	saveRef := flag.Bool("save", false, "Store this frame's contour as the category guideline")

	flag.Parse()

	// load camera frame
	img := gocv.IMRead(*imgFile, gocv.IMReadColor)

	if img.Empty() {
		log.Fatal("Error reading image from: ", *imgFile)
	}

	defer img.Close()

	// load segmentation mask as grayscale
	maskMat := gocv.IMRead(*maskFile, gocv.IMReadGrayScale)

	if maskMat.Empty() {
		log.Fatal("Error reading mask from: ", *maskFile)
	}

	defer maskMat.Close()

	mask := &silhouette.Mask{
		Width:  maskMat.Cols(),
		Height: maskMat.Rows(),
		Pix:    maskMat.ToBytes(),
	}

	// guideline storage
	store, err := guideline.NewFileStore(*guideDir)

	if err != nil {
		log.Fatal("Error opening guideline store: ", err)
	}

	// create capture session for the category
	sess := session.New(session.Config{
		Category:    *category,
		Store:       store,
		ImageWidth:  img.Cols(),
		ImageHeight: img.Rows(),
	})

	res := sess.Process(mask)

	if res.State == session.Failed {
		log.Fatal("Frame processing failed: ", res.Err)
	}

	// draw the extracted silhouette
	render.Contour(&img, res.Contour, render.DefaultStyle())

	switch {
	case res.NeedsGuideline && *saveRef:
		err = sess.EstablishGuideline(res.Normalized)

		if err != nil {
			log.Fatal("Error saving guideline: ", err)
		}

		log.Printf("Stored contour as new %q guideline", *category)

	case res.NeedsGuideline:
		log.Printf("No guideline stored for %q, re-run with -save to establish one", *category)

	default:
		// draw the stored guideline with its tolerance band and the
		// alignment feedback
		guide := sess.Guideline()
		band := 0.02 * guide.Contour.Diagonal

		render.GuidelineBand(&img, guide.Contour.Denormalize(), band,
			render.GuidelineStyle())
		render.Feedback(&img, *res.Alignment, render.DefaultFont())

		log.Printf("score=%.3f scale=%.2f correction=(%.1f,%.1f) move=%s",
			res.Alignment.Score, res.Alignment.ScaleRatio,
			res.Alignment.CorrectionPx.X, res.Alignment.CorrectionPx.Y,
			res.Alignment.Direction)
	}

	if ok := gocv.IMWrite(*saveFile, img); !ok {
		log.Fatal("Failed to write output to: ", *saveFile)
	}

	log.Println("Saved output to:", *saveFile)
}
